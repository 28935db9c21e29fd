package proof

import (
	"fmt"
	"time"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/fxamacker/cbor/v2"
	"github.com/rs/zerolog"

	"github.com/verifiabledb/sqlproofs/bit"
	"github.com/verifiabledb/sqlproofs/commitment"
	"github.com/verifiabledb/sqlproofs/database"
	"github.com/verifiabledb/sqlproofs/internal/parallel"
	"github.com/verifiabledb/sqlproofs/logger"
	"github.com/verifiabledb/sqlproofs/polynomial"
	"github.com/verifiabledb/sqlproofs/scalar"
	"github.com/verifiabledb/sqlproofs/sumcheck"
	"github.com/verifiabledb/sqlproofs/transcript"
)

// maxSubpolynomials bounds the claim count a proof may declare, so a
// malformed proof cannot force unbounded challenge generation.
const maxSubpolynomials = 1 << 20

// QueryProof certifies the result of one query plan against committed
// tables. It is deserialized from untrusted bytes, so fields carry no
// invariants until Verify has passed.
type QueryProof[C any, P any] struct {
	// BitDistributions carries the bit-pattern summaries sign-style
	// gadgets registered, in production order.
	BitDistributions []bit.Distribution `cbor:"1,keyasint"`
	// FirstRoundCommitments commits the witness columns produced before
	// any challenge.
	FirstRoundCommitments []C `cbor:"2,keyasint"`
	// ChiEvaluationLengths and RhoEvaluationLengths are the structural
	// lengths declared in the first round.
	ChiEvaluationLengths []int `cbor:"3,keyasint"`
	RhoEvaluationLengths []int `cbor:"4,keyasint"`
	// FinalRoundCommitments commits the post-challenge witness columns.
	FinalRoundCommitments []C `cbor:"5,keyasint"`
	// NumSubpolynomials is the number of batching multipliers drawn for
	// sumcheck; verification fails unless the plan produces exactly this
	// many claims.
	NumSubpolynomials int `cbor:"6,keyasint"`
	// SumcheckProof carries the per-round polynomial evaluations.
	SumcheckProof sumcheck.Proof `cbor:"7,keyasint"`
	// PCSProofEvaluations are the claimed MLE evaluations of every opened
	// column at the sumcheck point, in stream order.
	PCSProofEvaluations []fr.Element `cbor:"8,keyasint"`
	// EvaluationProof opens the folded columns at the sumcheck point.
	EvaluationProof P `cbor:"9,keyasint"`
	// RangeLength is the number of generator rows the proof covers.
	RangeLength int `cbor:"10,keyasint"`
}

// Option configures proving and verification.
type Option func(*config)

type config struct {
	log zerolog.Logger
}

// WithLogger overrides the package logger for one call.
func WithLogger(l zerolog.Logger) Option {
	return func(c *config) { c.log = l }
}

func newConfig(opts []Option) config {
	cfg := config{log: logger.Logger()}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Prove runs the full protocol for one plan and returns the proof together
// with the provable result the verifier will check it against.
func Prove[C any, P any](
	scheme commitment.EvaluationScheme[C, P],
	plan Plan,
	accessor DataAccessor,
	opts ...Option,
) (*QueryProof[C, P], *ProvableQueryResult, error) {
	cfg := newConfig(opts)
	start := time.Now()

	tableRefs := plan.TableRefs()
	minRowNum, maxRowNum := indexRange(accessor, tableRefs)
	tables := make(map[database.TableRef]*database.Table, len(tableRefs))
	for _, ref := range tableRefs {
		tables[ref] = accessor.Table(ref)
	}

	// first round: result plus structural claims, before any challenge
	firstRound := NewFirstRoundBuilder(maxRowNum - minRowNum)
	resultTable, err := plan.FirstRoundEvaluate(firstRound, tables)
	if err != nil {
		return nil, nil, fmt.Errorf("first round: %w", err)
	}
	provableResult := NewProvableQueryResult(resultTable)

	rangeLength := firstRound.RangeLength()
	numSumcheckVariables := max(parallel.Log2Ceil(rangeLength), 1)

	t, err := makeTranscript(plan, provableResult, rangeLength, minRowNum,
		firstRound.ChiEvaluationLengths(), firstRound.RhoEvaluationLengths())
	if err != nil {
		return nil, nil, err
	}

	firstRoundCommitments := scheme.Commit(firstRound.IntermediateMLEs(), minRowNum)
	if err := absorbSerialized(t, firstRoundCommitments); err != nil {
		return nil, nil, err
	}
	postResultChallenges := t.ChallengeScalars(firstRound.NumPostResultChallenges())

	// final round: anchored columns first, then the plan's witnesses
	builder := NewFinalRoundBuilder(numSumcheckVariables, postResultChallenges)
	for _, ref := range plan.ColumnRefs() {
		col, ok := tables[ref.Table].Column(ref.Ident)
		if !ok {
			return nil, nil, fmt.Errorf("plan references unknown column %q.%q", ref.Table, ref.Ident)
		}
		builder.ProduceAnchoredMLE(col.Scalars())
	}
	if err := plan.FinalRoundEvaluate(builder, tables); err != nil {
		return nil, nil, fmt.Errorf("final round: %w", err)
	}

	finalRoundCommitments := scheme.Commit(builder.IntermediateMLEs(), minRowNum)
	if err := absorbSerialized(t, finalRoundCommitments); err != nil {
		return nil, nil, err
	}
	if err := absorbSerialized(t, builder.BitDistributions()); err != nil {
		return nil, nil, err
	}

	// sumcheck over the batched claims
	numRandomScalars := numSumcheckVariables + builder.NumSumcheckSubpolynomials()
	randomScalars := NewSumcheckRandomScalars(t.ChallengeScalars(numRandomScalars), rangeLength, numSumcheckVariables)
	poly := builder.MakeSumcheckPolynomial(randomScalars)
	sumcheckProof, evaluationPoint := sumcheck.Prove(t, sumcheck.NewProverState(poly))

	// open every column of the stream at the sumcheck point
	evaluationVec := make([]fr.Element, rangeLength)
	polynomial.ComputeEvaluationVector(evaluationVec, evaluationPoint)
	streamMLEs := append(append([][]fr.Element{}, firstRound.IntermediateMLEs()...), builder.PCSProofMLEs()...)
	pcsProofEvaluations := make([]fr.Element, len(streamMLEs))
	for i, mle := range streamMLEs {
		pcsProofEvaluations[i] = scalar.InnerProduct(mle, evaluationVec)
	}
	t.AppendScalars(pcsProofEvaluations)

	// fold the stream into the single column the evaluation proof opens
	batchingScalars := t.ChallengeScalars(len(pcsProofEvaluations))
	foldedMLE := make([]fr.Element, rangeLength)
	for i, mle := range streamMLEs {
		scalar.MulAddAssign(foldedMLE, batchingScalars[i], mle)
	}
	evaluationProof := scheme.NewEvaluationProof(t, foldedMLE, evaluationPoint, minRowNum)

	proof := &QueryProof[C, P]{
		BitDistributions:      builder.BitDistributions(),
		FirstRoundCommitments: firstRoundCommitments,
		ChiEvaluationLengths:  firstRound.ChiEvaluationLengths(),
		RhoEvaluationLengths:  firstRound.RhoEvaluationLengths(),
		FinalRoundCommitments: finalRoundCommitments,
		NumSubpolynomials:     builder.NumSumcheckSubpolynomials(),
		SumcheckProof:         sumcheckProof,
		PCSProofEvaluations:   pcsProofEvaluations,
		EvaluationProof:       evaluationProof,
		RangeLength:           rangeLength,
	}

	cfg.log.Debug().
		Dur("took", time.Since(start)).
		Int("numVariables", numSumcheckVariables).
		Int("rangeLength", rangeLength).
		Int("subpolynomials", proof.NumSubpolynomials).
		Msg("query proof created")
	return proof, provableResult, nil
}

// Verify checks the proof against the plan, the table commitments, and the
// claimed result. Any failure on untrusted input comes back as an error,
// never a panic.
func (p *QueryProof[C, P]) Verify(
	scheme commitment.EvaluationScheme[C, P],
	plan Plan,
	comms commitment.QueryCommitments[C],
	accessor MetadataAccessor,
	result *ProvableQueryResult,
	opts ...Option,
) error {
	cfg := newConfig(opts)
	start := time.Now()

	if p.RangeLength < 1 {
		return sizeMismatch("range length must be positive")
	}
	if p.NumSubpolynomials < 0 || p.NumSubpolynomials > maxSubpolynomials {
		return sizeMismatch("subpolynomial count out of range")
	}
	if len(p.FirstRoundCommitments) > len(p.PCSProofEvaluations) {
		return sizeMismatch("more first round commitments than evaluations")
	}
	for i := range p.BitDistributions {
		if !p.BitDistributions[i].IsValid() {
			return verificationError("invalid bit distribution")
		}
	}

	resultTable, err := result.ToTable(plan.ResultFields())
	if err != nil {
		return verificationError(fmt.Sprintf("malformed result: %v", err))
	}

	tableRefs := plan.TableRefs()
	minRowNum, _ := indexRange(accessor, tableRefs)
	numSumcheckVariables := max(parallel.Log2Ceil(p.RangeLength), 1)

	t, err := makeTranscript(plan, result, p.RangeLength, minRowNum,
		p.ChiEvaluationLengths, p.RhoEvaluationLengths)
	if err != nil {
		return err
	}
	if err := absorbSerialized(t, p.FirstRoundCommitments); err != nil {
		return err
	}
	postResultChallenges := t.ChallengeScalars(plan.NumPostResultChallenges())

	if err := absorbSerialized(t, p.FinalRoundCommitments); err != nil {
		return err
	}
	if err := absorbSerialized(t, p.BitDistributions); err != nil {
		return err
	}

	numRandomScalars := numSumcheckVariables + p.NumSubpolynomials
	randomScalars := NewSumcheckRandomScalars(t.ChallengeScalars(numRandomScalars), p.RangeLength, numSumcheckVariables)

	var zero fr.Element
	subclaim, err := p.SumcheckProof.VerifyWithoutEvaluation(t, numSumcheckVariables, zero)
	if err != nil {
		return verificationError(fmt.Sprintf("sumcheck: %v", err))
	}

	t.AppendScalars(p.PCSProofEvaluations)
	batchingScalars := t.ChallengeScalars(len(p.PCSProofEvaluations))

	chiLengths := make([]int, 0, len(tableRefs)+len(p.ChiEvaluationLengths)+1)
	for _, ref := range tableRefs {
		chiLengths = append(chiLengths, accessor.TableLength(ref))
	}
	chiLengths = append(chiLengths, p.ChiEvaluationLengths...)
	chiLengths = append(chiLengths, p.RangeLength)

	evals, err := NewSumcheckMleEvaluations(subclaim.EvaluationPoint, randomScalars,
		p.PCSProofEvaluations, chiLengths, p.RhoEvaluationLengths)
	if err != nil {
		return err
	}
	builder := NewVerificationBuilder(evals, p.BitDistributions,
		randomScalars.SubpolynomialMultipliers(), batchingScalars,
		postResultChallenges, len(p.FirstRoundCommitments),
		p.ChiEvaluationLengths, p.RhoEvaluationLengths)

	columnEvals := make(map[database.ColumnRef]fr.Element, len(plan.ColumnRefs()))
	for _, ref := range plan.ColumnRefs() {
		eval, err := builder.TryConsumeAnchoredMLEEvaluation()
		if err != nil {
			return err
		}
		columnEvals[ref] = eval
	}
	chiEvals := make(map[database.TableRef]fr.Element, len(tableRefs))
	for _, ref := range tableRefs {
		eval, ok := evals.ChiEvaluation(accessor.TableLength(ref))
		if !ok {
			return sizeMismatch("missing table length indicator evaluation")
		}
		chiEvals[ref] = eval
	}

	verifierEvaluations, err := plan.VerifierEvaluate(builder, columnEvals, chiEvals)
	if err != nil {
		return err
	}
	if err := builder.CheckCompleted(); err != nil {
		return err
	}

	// the proof's round polynomials must have exactly the degree the
	// plan's claims imply
	roundLength := len(p.SumcheckProof.Coefficients) / numSumcheckVariables
	if roundLength != max(builder.MaxMultiplicands(), 2)+1 {
		return verificationError("sumcheck round degree mismatch")
	}

	// check the claimed output columns against the decoded result
	resultEvaluations := resultTableEvaluations(resultTable, subclaim.EvaluationPoint)
	if len(verifierEvaluations) != len(resultEvaluations) {
		return verificationError("result column count mismatch")
	}
	for i := range resultEvaluations {
		if verifierEvaluations[i] != resultEvaluations[i] {
			return verificationError("result evaluation check failed")
		}
	}

	if builder.SumcheckEvaluation() != subclaim.ExpectedEvaluation {
		return verificationError("sumcheck evaluation check failed")
	}

	allCommitments, err := p.assembleCommitments(plan, comms, builder.FinalSources())
	if err != nil {
		return err
	}
	if err := scheme.VerifyBatchedProof(t, p.EvaluationProof, allCommitments,
		batchingScalars, p.PCSProofEvaluations, subclaim.EvaluationPoint,
		minRowNum, p.RangeLength); err != nil {
		return verificationError(fmt.Sprintf("evaluation proof: %v", err))
	}

	cfg.log.Debug().
		Dur("took", time.Since(start)).
		Int("numVariables", numSumcheckVariables).
		Msg("query proof verified")
	return nil
}

// assembleCommitments lines one commitment up with every opened column, in
// stream order: first-round commitments, then anchored and final-round
// commitments interleaved the way verification consumed them.
func (p *QueryProof[C, P]) assembleCommitments(
	plan Plan,
	comms commitment.QueryCommitments[C],
	sources []MLESource,
) ([]C, error) {
	columnRefs := plan.ColumnRefs()
	out := make([]C, 0, len(p.PCSProofEvaluations))
	out = append(out, p.FirstRoundCommitments...)
	anchored, intermediate := 0, 0
	for _, src := range sources {
		switch src {
		case SourceAnchored:
			if anchored >= len(columnRefs) {
				return nil, sizeMismatch("more anchored evaluations than column references")
			}
			ref := columnRefs[anchored]
			c, ok := comms.CommitmentOf(ref.Table, ref.Ident)
			if !ok {
				return nil, verificationError(fmt.Sprintf("missing commitment for %q.%q", ref.Table, ref.Ident))
			}
			out = append(out, c)
			anchored++
		case SourceIntermediate:
			if intermediate >= len(p.FinalRoundCommitments) {
				return nil, sizeMismatch("more final round evaluations than commitments")
			}
			out = append(out, p.FinalRoundCommitments[intermediate])
			intermediate++
		}
	}
	if anchored != len(columnRefs) {
		return nil, sizeMismatch("unconsumed column references")
	}
	if intermediate != len(p.FinalRoundCommitments) {
		return nil, sizeMismatch("unconsumed final round commitments")
	}
	return out, nil
}

// resultTableEvaluations evaluates each result column's MLE at the point.
func resultTableEvaluations(table *database.Table, point []fr.Element) []fr.Element {
	vec := make([]fr.Element, table.NumRows())
	polynomial.ComputeEvaluationVector(vec, point)
	out := make([]fr.Element, table.NumColumns())
	for i := range out {
		out[i] = scalar.InnerProduct(table.ColumnAt(i).Scalars(), vec)
	}
	return out
}

// makeTranscript binds the public inputs: result bytes, plan description,
// range length, generator offset, and the declared structural lengths.
func makeTranscript(plan Plan, result *ProvableQueryResult, rangeLength, minRowNum int, chiLengths, rhoLengths []int) (*transcript.Transcript, error) {
	t := transcript.New()
	if err := absorbSerialized(t, result); err != nil {
		return nil, err
	}
	if err := absorbSerialized(t, plan); err != nil {
		return nil, err
	}
	t.AppendUint64(uint64(rangeLength))
	t.AppendUint64(uint64(minRowNum))
	absorbLengths(t, chiLengths)
	absorbLengths(t, rhoLengths)
	return t, nil
}

func absorbLengths(t *transcript.Transcript, lengths []int) {
	t.AppendUint64(uint64(len(lengths)))
	for _, n := range lengths {
		t.AppendUint64(uint64(n))
	}
}

// absorbSerialized length-frames the canonical CBOR encoding of v into the
// transcript.
func absorbSerialized(t *transcript.Transcript, v any) error {
	data, err := cbor.Marshal(v)
	if err != nil {
		return fmt.Errorf("serializing for transcript: %w", err)
	}
	t.AppendUint64(uint64(len(data)))
	t.AppendBytes(data)
	return nil
}
