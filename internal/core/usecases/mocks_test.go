// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"subsift/internal/core/domain"
	"subsift/internal/platform/errors"
)

// mockSource es un mock de ports.Source para tests del aggregator y del
// pipeline. Emite sus nombres en orden y termina con el error configurado.
type mockSource struct {
	name  string
	names []string
	err   error
	delay time.Duration

	mu          sync.Mutex
	streamCalls int
}

func newMockSource(name string, names ...string) *mockSource {
	return &mockSource{name: name, names: names}
}

// mockSourceWithError crea un mock que falla sin emitir nada.
func mockSourceWithError(name string, err error) *mockSource {
	return &mockSource{name: name, err: err}
}

// mockSourceFailingAfter crea un mock que emite sus nombres y luego falla.
func mockSourceFailingAfter(name string, err error, names ...string) *mockSource {
	return &mockSource{name: name, names: names, err: err}
}

func (m *mockSource) Name() string {
	return m.name
}

func (m *mockSource) Stream(ctx context.Context, target domain.Target) (<-chan domain.Candidate, <-chan error) {
	m.mu.Lock()
	m.streamCalls++
	m.mu.Unlock()

	out := make(chan domain.Candidate)
	errs := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errs)

		for _, name := range m.names {
			if m.delay > 0 {
				select {
				case <-time.After(m.delay):
				case <-ctx.Done():
					errs <- ctx.Err()
					return
				}
			}
			select {
			case out <- domain.NewCandidate(name, m.name):
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			}
		}
		if m.err != nil {
			errs <- m.err
		}
	}()

	return out, errs
}

func (m *mockSource) Close() error {
	return nil
}

func (m *mockSource) getStreamCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.streamCalls
}

// mockResolver es un mock de ports.Resolver con respuestas fijas por
// nombre. Los nombres sin respuesta configurada reciben NXDOMAIN, salvo que
// se configure una respuesta comodín.
type mockResolver struct {
	mu        sync.Mutex
	answers   map[string]domain.RRSet
	errs      map[string]error
	failFirst map[string]int
	wildcard  *domain.RRSet
	allErr    error
	delay     time.Duration
	lookups   int
	asked     []string

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newMockResolver() *mockResolver {
	return &mockResolver{
		answers:   make(map[string]domain.RRSet),
		errs:      make(map[string]error),
		failFirst: make(map[string]int),
	}
}

// answer fija las direcciones A de un nombre.
func (r *mockResolver) answer(name string, addrs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers[name] = domain.RRSet{A: addrs}
}

// fail fija un error permanente para un nombre.
func (r *mockResolver) fail(name string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[name] = err
}

// failTransiently hace que las primeras n consultas de un nombre devuelvan
// SERVFAIL antes de responder normalmente.
func (r *mockResolver) failTransiently(name string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failFirst[name] = n
}

// answerAll responde con las mismas direcciones a cualquier nombre,
// simulando una zona con comodín.
func (r *mockResolver) answerAll(addrs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rr := domain.RRSet{A: addrs}
	r.wildcard = &rr
}

// failAll hace que toda consulta devuelva el mismo error.
func (r *mockResolver) failAll(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.allErr = err
}

func (r *mockResolver) Lookup(ctx context.Context, name string) (domain.RRSet, error) {
	current := r.inFlight.Add(1)
	defer r.inFlight.Add(-1)
	for {
		peak := r.maxInFlight.Load()
		if current <= peak || r.maxInFlight.CompareAndSwap(peak, current) {
			break
		}
	}

	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return domain.RRSet{}, ctx.Err()
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lookups++
	r.asked = append(r.asked, name)

	if r.allErr != nil {
		return domain.RRSet{}, r.allErr
	}
	if n := r.failFirst[name]; n > 0 {
		r.failFirst[name] = n - 1
		return domain.RRSet{}, errors.Wrapf(errors.ErrServerFailure, "lookup %s", name)
	}
	if err, ok := r.errs[name]; ok {
		return domain.RRSet{}, err
	}
	if rr, ok := r.answers[name]; ok {
		return rr, nil
	}
	if r.wildcard != nil {
		return *r.wildcard, nil
	}
	return domain.RRSet{}, errors.Wrapf(errors.ErrNameNotFound, "lookup %s", name)
}

func (r *mockResolver) getLookups() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lookups
}

// askedNames retorna los nombres consultados en orden de llegada.
func (r *mockResolver) askedNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.asked...)
}

// mockSink acumula lo emitido para inspección.
type mockSink struct {
	mu      sync.Mutex
	emitted []domain.Resolution
	flushed *domain.RunReport
	emitErr error
	closed  bool
}

func newMockSink() *mockSink {
	return &mockSink{}
}

func (s *mockSink) Emit(res domain.Resolution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emitErr != nil {
		return s.emitErr
	}
	s.emitted = append(s.emitted, res)
	return nil
}

func (s *mockSink) Flush(report *domain.RunReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushed = report
	return nil
}

func (s *mockSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// emittedNames retorna los nombres emitidos en orden de llegada.
func (s *mockSink) emittedNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.emitted))
	for _, res := range s.emitted {
		names = append(names, res.Name)
	}
	return names
}
