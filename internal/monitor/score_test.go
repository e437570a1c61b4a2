package monitor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"mateengine/internal/mlen"
	"mateengine/internal/tt"
)

func TestNegateSwapsWinAndLose(t *testing.T) {
	w := Win(mlen.New(3, 0))
	l := w.Negate()
	require.Equal(t, ScoreLose, l.Kind)
	require.Equal(t, 3, l.Len.Plies())
	require.Equal(t, w, l.Negate())
}

func TestNegateFlipsUnknownSign(t *testing.T) {
	u := Unknown(120)
	require.Equal(t, -120, u.Negate().CP)
}

func TestMateScoreShorterMateWins(t *testing.T) {
	short := Win(mlen.New(3, 0))
	long := Win(mlen.New(9, 0))
	require.Greater(t, short.MateScore(), long.MateScore())
}

func TestMateScoreDominatesUnknown(t *testing.T) {
	require.Greater(t, Win(mlen.New(99, 0)).MateScore(), Unknown(20000).MateScore())
}

func TestWinProbabilityBounds(t *testing.T) {
	require.Equal(t, 1.0, Win(mlen.New(1, 0)).WinProbability())
	require.Equal(t, 0.0, Lose(mlen.New(1, 0)).WinProbability())
	require.InDelta(t, 0.5, Unknown(0).WinProbability(), 1e-9)
}

func TestParseScoreMethodRoundTrips(t *testing.T) {
	for _, m := range []ScoreMethod{ScoreMethodDN, ScoreMethodNegPN, ScoreMethodPonanza} {
		parsed, err := ParseScoreMethod(m.String())
		require.NoError(t, err)
		require.Equal(t, m, parsed)
	}
}

func TestParseScoreMethodRejectsUnknown(t *testing.T) {
	_, err := ParseScoreMethod("bogus")
	require.Error(t, err)
}

func TestFromCountsNegPNFavorsLowerPn(t *testing.T) {
	easier := FromCounts(2, 10, ScoreMethodNegPN)
	harder := FromCounts(8, 10, ScoreMethodNegPN)
	require.Greater(t, easier.CP, harder.CP)
}

func TestFromCountsPonanzaIsBalancedAtEqualCounts(t *testing.T) {
	s := FromCounts(5, 5, ScoreMethodPonanza)
	require.Equal(t, 0, s.CP)
}

func TestFromCountsPonanzaFavorsHigherDn(t *testing.T) {
	s := FromCounts(1, 9, ScoreMethodPonanza)
	require.Greater(t, s.CP, 0)
}

func TestFromCountsSaturatesAtInf(t *testing.T) {
	s := FromCounts(tt.Inf, 0, ScoreMethodNegPN)
	require.Equal(t, -capCP, s.CP)
}
