package processor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLexiconScorerEmptyText(t *testing.T) {
	s := NewLexiconScorer()
	require.Equal(t, Sentiment{}, s.Score(""))
	require.Equal(t, Sentiment{}, s.Score("   "))
	require.Equal(t, Sentiment{}, s.Score("the river rose overnight"))
	require.Equal(t, SeverityMinimumPolarity, ClassifyByPolarity(s.Score("").Polarity))
}

func TestLexiconScorerModifiers(t *testing.T) {
	s := NewLexiconScorer()

	got := s.Score("good")
	require.InDelta(t, 0.7, got.Polarity, 1e-9)
	require.InDelta(t, 0.6, got.Subjectivity, 1e-9)

	got = s.Score("not good")
	require.InDelta(t, -0.35, got.Polarity, 1e-9)

	got = s.Score("It isn't good")
	require.InDelta(t, -0.35, got.Polarity, 1e-9)

	got = s.Score("very good")
	require.InDelta(t, 0.91, got.Polarity, 1e-9)
	require.InDelta(t, 0.78, got.Subjectivity, 1e-9)

	// 两个命中词取平均
	got = s.Score("Deadly storm, but rescue was successful")
	require.InDelta(t, (-0.8+0.75)/2, got.Polarity, 1e-9)
}

func TestLexiconScorerRanges(t *testing.T) {
	s := NewLexiconScorer()
	texts := []string{
		"extremely extremely terrible catastrophic devastating worst",
		"incredibly very best happy brave heroic",
		"Massive flood leaves thousands homeless",
		"Relief camps are safe and stable",
	}
	for _, text := range texts {
		got := s.Score(text)
		require.GreaterOrEqual(t, got.Polarity, -1.0, text)
		require.LessOrEqual(t, got.Polarity, 1.0, text)
		require.GreaterOrEqual(t, got.Subjectivity, 0.0, text)
		require.LessOrEqual(t, got.Subjectivity, 1.0, text)
	}
}
