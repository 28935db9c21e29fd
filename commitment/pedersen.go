package commitment

import (
	"fmt"
	"runtime"
	"time"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/sync/errgroup"

	"github.com/verifiabledb/sqlproofs/logger"
)

// PedersenScheme commits to columns as Pedersen vector commitments over
// BN254 G1: the commitment to a column placed at row offset o is
//
//	sum_i data[i] * G[o+i]
//
// over a fixed window of generators. Commitments over disjoint row ranges
// add homomorphically, which is what makes incremental table updates work.
type PedersenScheme struct {
	generators []bn254.G1Affine
}

// NewPedersenScheme derives numGenerators independent generators from the
// given domain-separation tag. Committing to rows past the window panics, so
// size it to the largest table plus offset expected.
func NewPedersenScheme(numGenerators int, dst []byte) (*PedersenScheme, error) {
	generators := make([]bn254.G1Affine, numGenerators)
	var buf [8]byte
	for i := range generators {
		for j := 0; j < 8; j++ {
			buf[j] = byte(i >> (8 * j))
		}
		g, err := bn254.HashToG1(buf[:], dst)
		if err != nil {
			return nil, fmt.Errorf("deriving generator %d: %w", i, err)
		}
		generators[i] = g
	}
	return &PedersenScheme{generators: generators}, nil
}

// NumGenerators returns the size of the generator window.
func (s *PedersenScheme) NumGenerators() int { return len(s.generators) }

// Commit commits to each column via a multi-scalar multiplication over the
// generator window starting at offset. Columns are processed in parallel.
func (s *PedersenScheme) Commit(columns [][]fr.Element, offset int) []bn254.G1Affine {
	log := logger.Logger()
	start := time.Now()

	out := make([]bn254.G1Affine, len(columns))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, col := range columns {
		g.Go(func() error {
			if offset+len(col) > len(s.generators) {
				panic("column exceeds generator window")
			}
			var acc bn254.G1Jac
			if _, err := acc.MultiExp(s.generators[offset:offset+len(col)], col, ecc.MultiExpConfig{}); err != nil {
				return err
			}
			out[i].FromJacobian(&acc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// MultiExp only errors on length mismatch, which the slicing above rules out
		panic(err)
	}

	log.Debug().Dur("took", time.Since(start)).Int("columns", len(columns)).Msg("pedersen commit")
	return out
}

// Add returns the sum of two commitments.
func (s *PedersenScheme) Add(a, b bn254.G1Affine) bn254.G1Affine {
	var aj, bj bn254.G1Jac
	aj.FromAffine(&a)
	bj.FromAffine(&b)
	aj.AddAssign(&bj)
	var out bn254.G1Affine
	out.FromJacobian(&aj)
	return out
}

// Sub returns the difference of two commitments.
func (s *PedersenScheme) Sub(a, b bn254.G1Affine) bn254.G1Affine {
	var aj, bj bn254.G1Jac
	aj.FromAffine(&a)
	bj.FromAffine(&b)
	aj.SubAssign(&bj)
	var out bn254.G1Affine
	out.FromJacobian(&aj)
	return out
}
