package voicecall

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/voice-agent/internal/domain/entities"
	"github.com/johnquangdev/voice-agent/internal/infrastructure/external/summarizer"
	"github.com/johnquangdev/voice-agent/internal/usecase/call"
	"github.com/johnquangdev/voice-agent/internal/usecase/summary"
	"github.com/johnquangdev/voice-agent/pkg/config"
)

// events records the order in which collaborators are invoked
type events struct {
	mu  sync.Mutex
	log []string
}

func (e *events) add(s string) {
	e.mu.Lock()
	e.log = append(e.log, s)
	e.mu.Unlock()
}

func (e *events) String() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return strings.Join(e.log, ",")
}

type fakeTransport struct {
	ev    *events
	err   error
	onRun func()
}

func (f *fakeTransport) Teardown(context.Context, string) error {
	f.ev.add("teardown")
	if f.onRun != nil {
		f.onRun()
	}
	return f.err
}

type fakeSummarizer struct {
	mu         sync.Mutex
	ev         *events
	result     summary.Result
	transcript entities.Transcript
	ctxErr     error
}

func (f *fakeSummarizer) Summarize(ctx context.Context, t entities.Transcript) summary.Result {
	f.ev.add("summarize")
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transcript = t
	f.ctxErr = ctx.Err()
	return f.result
}

// memoryRepo is an in-memory CallRepository
type memoryRepo struct {
	mu    sync.Mutex
	ev    *events
	calls []*entities.Call
	err   error
}

func (r *memoryRepo) Create(_ context.Context, c *entities.Call) error {
	r.ev.add("create")
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	c.CreatedAt = time.Now()
	r.calls = append(r.calls, c)
	return nil
}

func (r *memoryRepo) ListByUser(_ context.Context, userID string) ([]*entities.Call, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entities.Call{}
	for i := len(r.calls) - 1; i >= 0; i-- {
		if r.calls[i].UserID == userID {
			out = append(out, r.calls[i])
		}
	}
	return out, nil
}

func newTestOrchestrator(ev *events, tr Transport, sum Summarizer, repo *memoryRepo) (*Orchestrator, *Accumulator) {
	acc := NewAccumulator()
	o := NewOrchestrator(uuid.New(), "call-test", acc, tr, sum, call.NewService(repo), zap.NewNop())
	return o, acc
}

func TestOrchestrator_SequentialPipeline(t *testing.T) {
	ev := &events{}
	repo := &memoryRepo{ev: ev}
	sum := &fakeSummarizer{ev: ev, result: summary.Result{Summary: "Talked about sleep.", Source: summary.SourceModel}}
	o, acc := newTestOrchestrator(ev, &fakeTransport{ev: ev}, sum, repo)

	acc.Record("fragment one", "agent")
	acc.Record("fragment two", "agent")

	out, err := o.Leave(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Leave error: %v", err)
	}
	if got := ev.String(); got != "teardown,summarize,create" {
		t.Fatalf("unexpected order %q", got)
	}
	if out.State != entities.CallStateDone || o.State() != entities.CallStateDone {
		t.Fatalf("expected done state, got %s", out.State)
	}
	if out.Call == nil || out.Call.UserID != "u1" || out.Call.Summary != "Talked about sleep." {
		t.Fatalf("unexpected call %+v", out.Call)
	}
	if out.Call.Metadata["fragmentCount"] != 2 || out.Call.Metadata["summarySource"] != "model" {
		t.Fatalf("unexpected metadata %v", out.Call.Metadata)
	}
	if sum.transcript.Len() != 2 {
		t.Fatalf("summarizer got %d fragments", sum.transcript.Len())
	}
}

func TestOrchestrator_SecondLeaveDoesNothing(t *testing.T) {
	ev := &events{}
	repo := &memoryRepo{ev: ev}
	sum := &fakeSummarizer{ev: ev, result: summary.Result{Summary: "x.", Source: summary.SourceModel}}
	o, _ := newTestOrchestrator(ev, &fakeTransport{ev: ev}, sum, repo)

	if _, err := o.Leave(context.Background(), "u1"); err != nil {
		t.Fatalf("first Leave error: %v", err)
	}
	if _, err := o.Leave(context.Background(), "u1"); !errors.Is(err, entities.ErrCallFinished) {
		t.Fatalf("expected ErrCallFinished, got %v", err)
	}
	if len(repo.calls) != 1 {
		t.Fatalf("expected exactly one write, got %d", len(repo.calls))
	}
}

func TestOrchestrator_PersistFailureIsWarning(t *testing.T) {
	ev := &events{}
	repo := &memoryRepo{ev: ev, err: errors.New("connection refused")}
	sum := &fakeSummarizer{ev: ev, result: summary.Result{Summary: "x.", Source: summary.SourceModel}}
	o, _ := newTestOrchestrator(ev, &fakeTransport{ev: ev}, sum, repo)

	out, err := o.Leave(context.Background(), "u1")
	if err != nil {
		t.Fatalf("persist failure must not be an error, got %v", err)
	}
	if out.Warning != PersistWarning || out.Call != nil || out.State != entities.CallStateDone {
		t.Fatalf("unexpected outcome %+v", out)
	}
	if strings.Count(ev.String(), "create") != 1 {
		t.Fatalf("persist must not be retried: %q", ev.String())
	}
}

func TestOrchestrator_TeardownFailureContinues(t *testing.T) {
	ev := &events{}
	repo := &memoryRepo{ev: ev}
	sum := &fakeSummarizer{ev: ev, result: summary.Result{Summary: "x.", Source: summary.SourceModel}}
	o, _ := newTestOrchestrator(ev, &fakeTransport{ev: ev, err: errors.New("room not found")}, sum, repo)

	out, err := o.Leave(context.Background(), "u1")
	if err != nil || out.Call == nil {
		t.Fatalf("pipeline must continue after teardown error: %+v, %v", out, err)
	}
}

func TestOrchestrator_FragmentsAfterTeardownAreDropped(t *testing.T) {
	ev := &events{}
	repo := &memoryRepo{ev: ev}
	sum := &fakeSummarizer{ev: ev, result: summary.Result{Summary: "x.", Source: summary.SourceModel}}
	tr := &fakeTransport{ev: ev}
	o, acc := newTestOrchestrator(ev, tr, sum, repo)

	acc.Record("during call", "agent")
	tr.onRun = func() { acc.Record("late but before stop", "agent") }

	if _, err := o.Leave(context.Background(), "u1"); err != nil {
		t.Fatalf("Leave error: %v", err)
	}
	if acc.Record("after teardown", "agent") {
		t.Fatalf("accumulator must be stopped after leave")
	}
	if got := sum.transcript.Text(); strings.Contains(got, "after teardown") {
		t.Fatalf("post-teardown fragment leaked into transcript: %q", got)
	}
}

func TestOrchestrator_IgnoresCallerCancellation(t *testing.T) {
	ev := &events{}
	repo := &memoryRepo{ev: ev}
	sum := &fakeSummarizer{ev: ev, result: summary.Result{Summary: "x.", Source: summary.SourceModel}}
	o, _ := newTestOrchestrator(ev, &fakeTransport{ev: ev}, sum, repo)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := o.Leave(ctx, "u1")
	if err != nil || out.Call == nil {
		t.Fatalf("cancelled caller must not abort the pipeline: %+v, %v", out, err)
	}
	if sum.ctxErr != nil {
		t.Fatalf("summarizer saw cancelled context: %v", sum.ctxErr)
	}
}

// End-to-end scenarios with the real summarizer client against an HTTP endpoint

func endToEnd(t *testing.T, handler http.HandlerFunc, fragments []string) (*Outcome, *memoryRepo) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	ev := &events{}
	repo := &memoryRepo{ev: ev}
	client := summarizer.NewHTTPClient(config.SummarizerConfig{EndpointURL: ts.URL})
	o, acc := newTestOrchestrator(ev, &fakeTransport{ev: ev}, summary.NewSummarizer(client, zap.NewNop()), repo)

	for _, f := range fragments {
		acc.Record(f, "agent")
	}
	out, err := o.Leave(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Leave error: %v", err)
	}
	return out, repo
}

func TestEndToEnd_ModelSummaryPersisted(t *testing.T) {
	want := "Patient reported a headache; advised rest and hydration."
	fragments := []string{
		"Patient reports headache.",
		"Advised rest and hydration.",
		"We also talked about limiting screen time in the evening and keeping a regular sleep schedule.",
	}

	out, repo := endToEnd(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"summary":"` + want + `"}`))
	}, fragments)

	if out.Summary != want {
		t.Fatalf("unexpected summary %q", out.Summary)
	}
	calls, _ := repo.ListByUser(context.Background(), "u1")
	if len(calls) != 1 || calls[0].Summary != want {
		t.Fatalf("summary not retrievable: %+v", calls)
	}
}

func TestEndToEnd_EmptyTranscript(t *testing.T) {
	hit := false
	out, repo := endToEnd(t, func(w http.ResponseWriter, r *http.Request) {
		hit = true
	}, nil)

	if hit {
		t.Fatalf("endpoint must not be called for a short transcript")
	}
	if out.Summary != summary.TooShortSummary {
		t.Fatalf("unexpected summary %q", out.Summary)
	}
	calls, _ := repo.ListByUser(context.Background(), "u1")
	if len(calls) != 1 || calls[0].Summary != summary.TooShortSummary {
		t.Fatalf("short summary not persisted: %+v", calls)
	}
}

func TestEndToEnd_EndpointErrorUsesFallback(t *testing.T) {
	fragments := []string{
		"Patient reports a persistent headache since Monday.",
		"Advised rest and hydration.",
		"Suggested keeping a symptom journal for a week.",
	}

	out, repo := endToEnd(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}, fragments)

	want := "Patient reports a persistent headache since Monday. Advised rest and hydration."
	if out.Summary != want || out.Source != summary.SourceFallback {
		t.Fatalf("got %+v, want %q", out, want)
	}
	if len(repo.calls) != 1 || repo.calls[0].Summary != want {
		t.Fatalf("fallback not persisted: %+v", repo.calls)
	}
}
