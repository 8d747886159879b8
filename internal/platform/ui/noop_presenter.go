// internal/platform/ui/noop_presenter.go
package ui

// NoopPresenter es una implementación vacía del Presenter
// que no produce ninguna salida. Útil para modo quiet o streaming.
type NoopPresenter struct{}

// NewNoopPresenter crea una instancia del presenter sin salida
func NewNoopPresenter() *NoopPresenter {
	return &NoopPresenter{}
}

// Start no hace nada
func (n *NoopPresenter) Start(info RunInfo) {}

// Progress no hace nada
func (n *NoopPresenter) Progress(processed, resolved int) {}

// EndProgress no hace nada
func (n *NoopPresenter) EndProgress() {}

// Info no hace nada
func (n *NoopPresenter) Info(msg string) {}

// Warning no hace nada
func (n *NoopPresenter) Warning(msg string) {}

// Error no hace nada
func (n *NoopPresenter) Error(msg string) {}

// Finish no hace nada
func (n *NoopPresenter) Finish(stats RunStats) {}

// Close no hace nada
func (n *NoopPresenter) Close() error {
	return nil
}
