package stopwords

import (
	"context"
	"errors"
	"testing"

	"github.com/cognicore/podtopic/pkg/podtopic/normalize"
	"github.com/cognicore/podtopic/pkg/podtopic/stoplist"
)

type fakeProvider struct {
	stats []stoplist.Stats
	err   error
}

func (f fakeProvider) StopwordStats(ctx context.Context) ([]stoplist.Stats, error) {
	return f.stats, f.err
}

type fakeReviewer struct {
	decisions map[string]bool
	err       error
}

func (f fakeReviewer) Approve(ctx context.Context, cand stoplist.Candidate) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.decisions[cand.Token], nil
}

func TestAutoTunerRun_NoReviewer(t *testing.T) {
	mgr := stoplist.NewManager([]string{})
	stats := []stoplist.Stats{
		stoplist.NewStats("episode", 90, 100),
		stoplist.NewStats("crypto", 20, 100),
	}

	tuner := AutoTuner{
		Provider: fakeProvider{stats: stats},
		Manager:  mgr,
	}

	cands, err := tuner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(cands) != 1 || cands[0].Token != "episode" {
		t.Fatalf("Expected 'episode' as candidate, got %+v", cands)
	}
	if cands[0].Reason.Source != stoplist.SourceSuggested {
		t.Errorf("Expected suggested source, got %q", cands[0].Reason.Source)
	}
}

func TestAutoTunerRun_WithReviewer(t *testing.T) {
	mgr := stoplist.NewManager([]string{})
	stats := []stoplist.Stats{
		stoplist.NewStats("listen", 85, 100),
		stoplist.NewStats("health", 82, 100),
	}

	tuner := AutoTuner{
		Provider: fakeProvider{stats: stats},
		Manager:  mgr,
		Reviewer: fakeReviewer{
			decisions: map[string]bool{
				"listen": true,
				"health": false,
			},
		},
	}

	cands, err := tuner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(cands) != 1 || cands[0].Token != "listen" {
		t.Fatalf("Expected reviewer to approve only 'listen', got %+v", cands)
	}
}

func TestAutoTunerRun_ProviderError(t *testing.T) {
	tuner := AutoTuner{
		Provider: fakeProvider{err: errors.New("boom")},
		Manager:  stoplist.NewManager(nil),
	}

	if _, err := tuner.Run(context.Background()); err == nil {
		t.Fatal("Expected provider error")
	}
}

func TestAutoTunerRun_ReviewerError(t *testing.T) {
	tuner := AutoTuner{
		Provider: fakeProvider{stats: []stoplist.Stats{stoplist.NewStats("listen", 90, 100)}},
		Manager:  stoplist.NewManager(nil),
		Reviewer: fakeReviewer{err: errors.New("llm down")},
	}

	if _, err := tuner.Run(context.Background()); err == nil {
		t.Fatal("Expected reviewer error")
	}
}

func TestAutoTunerRun_MissingParts(t *testing.T) {
	if _, err := (&AutoTuner{Manager: stoplist.NewManager(nil)}).Run(context.Background()); err == nil {
		t.Error("Expected error for nil provider")
	}
	if _, err := (&AutoTuner{Provider: fakeProvider{}}).Run(context.Background()); err == nil {
		t.Error("Expected error for nil manager")
	}
}

func TestCorpusStats(t *testing.T) {
	provider := CorpusStats{
		Normalizer: normalize.New([]string{"the"}),
		Texts: []string{
			"The episode about money",
			"the EPISODE on health",
			"episode 12: money talks",
		},
	}

	stats, err := provider.StopwordStats(context.Background())
	if err != nil {
		t.Fatalf("StopwordStats: %v", err)
	}

	byToken := make(map[string]stoplist.Stats)
	for _, s := range stats {
		byToken[s.Token] = s
	}
	if _, ok := byToken["the"]; ok {
		t.Error("stopwords must not be counted")
	}
	if got := byToken["episode"].DF; got != 3 {
		t.Errorf("episode DF = %d, want 3", got)
	}
	if got := byToken["money"].DFPercent; got < 66 || got > 67 {
		t.Errorf("money DF%% = %v, want ~66.7", got)
	}
	for i := 1; i < len(stats); i++ {
		if stats[i-1].Token > stats[i].Token {
			t.Fatalf("stats not sorted: %v", stats)
		}
	}
}

func TestCorpusStatsFeedsTuner(t *testing.T) {
	texts := []string{
		"episode money", "episode health", "episode gym", "episode stocks", "crypto news",
	}
	tuner := AutoTuner{
		Provider:   CorpusStats{Normalizer: normalize.New(nil), Texts: texts},
		Manager:    stoplist.NewManager(nil),
		Thresholds: stoplist.Thresholds{DFPercent: 50, MinDocs: 3},
	}

	cands, err := tuner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(cands) != 1 || cands[0].Token != "episode" || cands[0].Reason.DF != 4 {
		t.Fatalf("Expected episode with DF 4, got %+v", cands)
	}
}
