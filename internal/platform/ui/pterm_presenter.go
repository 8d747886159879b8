// internal/platform/ui/pterm_presenter.go
package ui

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pterm/pterm"
)

// PTermPresenter implementa Presenter usando la biblioteca pterm
// para renderizar el banner, el spinner de progreso y el resumen.
type PTermPresenter struct {
	mu sync.Mutex

	// Spinner único de la fase de recolección/resolución
	spinner *pterm.SpinnerPrinter

	runInfo RunInfo
}

// NewPTermPresenter crea una nueva instancia del presenter con pterm
func NewPTermPresenter() *PTermPresenter {
	return &PTermPresenter{}
}

// Start inicia la presentación mostrando el header y la configuración
func (p *PTermPresenter) Start(info RunInfo) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.runInfo = info

	// Header principal
	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(pterm.BgCyan)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println("subsift - Passive Subdomain Discovery")

	pterm.Println()

	infoPanel := pterm.DefaultBox.
		WithTitle("Run Configuration").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgCyan))

	runDetail := fmt.Sprintf("%s Target: %s\n", IconTarget, pterm.Cyan(info.Target))
	runDetail += fmt.Sprintf("   Mode: %s\n", pterm.Yellow(info.Mode))
	runDetail += fmt.Sprintf("%s Sources: %s\n", IconSources, strings.Join(info.Sources, ", "))
	runDetail += fmt.Sprintf("%s Workers: %d\n", IconWorkers, info.Workers)
	runDetail += fmt.Sprintf("   Resolvers: %s\n", strings.Join(info.Resolvers, ", "))
	if info.TimeoutSeconds > 0 {
		runDetail += fmt.Sprintf("%s Timeout: %ds\n", IconTime, info.TimeoutSeconds)
	}
	runDetail += fmt.Sprintf("   Output: %s", pterm.Cyan(info.Output))

	infoPanel.Println(runDetail)

	pterm.Println()
	pterm.Println(pterm.LightBlue(SeparatorHeavy))
	pterm.Println()

	spinner, _ := pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(pterm.FgCyan)).
		WithSequence("⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷").
		Start("Collecting candidates...")
	p.spinner = spinner
}

// Progress actualiza el contador del spinner
func (p *PTermPresenter) Progress(processed, resolved int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.spinner == nil {
		return
	}
	p.spinner.UpdateText(fmt.Sprintf("Resolving... %s verified / %d processed",
		pterm.Green(fmt.Sprintf("%d", resolved)),
		processed,
	))
}

// EndProgress detiene el spinner dejando la línea limpia
func (p *PTermPresenter) EndProgress() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinner()
}

// Info muestra un mensaje informativo
func (p *PTermPresenter) Info(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pterm.Info.Println(msg)
}

// Warning muestra una advertencia
func (p *PTermPresenter) Warning(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinner()
	pterm.Warning.Println(msg)
}

// Error muestra un error
func (p *PTermPresenter) Error(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinner()
	pterm.Error.Println(msg)
}

// Finish finaliza la presentación con las estadísticas de la ejecución
func (p *PTermPresenter) Finish(stats RunStats) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinner()

	pterm.Println()
	pterm.Println(pterm.LightBlue(SeparatorHeavy))
	pterm.Println()

	headerStyle := pterm.BgGreen
	headerText := "Run Completed"
	if stats.Interrupted {
		headerStyle = pterm.BgYellow
		headerText = "Run Interrupted - Partial Results"
	}
	pterm.DefaultHeader.
		WithBackgroundStyle(pterm.NewStyle(headerStyle)).
		WithTextStyle(pterm.NewStyle(pterm.FgBlack)).
		Println(headerText)

	pterm.Println()

	statsPanel := pterm.DefaultBox.
		WithTitle("Run Statistics").
		WithTitleTopCenter().
		WithRightPadding(4).
		WithLeftPadding(4).
		WithBoxStyle(pterm.NewStyle(pterm.FgGreen))

	statsContent := fmt.Sprintf("%s Duration: %s\n",
		IconTime,
		pterm.Green(formatDuration(stats.Duration)),
	)
	statsContent += fmt.Sprintf("%s Unique Candidates: %s",
		IconNames,
		pterm.Cyan(fmt.Sprintf("%d", stats.Candidates)),
	)
	if stats.Duplicates > 0 {
		statsContent += pterm.Gray(fmt.Sprintf(" (+%d duplicates dropped)", stats.Duplicates))
	}
	statsContent += "\n"
	statsContent += fmt.Sprintf("%s Verified: %s\n",
		IconSuccess,
		pterm.Green(fmt.Sprintf("%d", stats.Resolved)),
	)
	statsContent += fmt.Sprintf("   Unresolved: %s\n",
		pterm.Gray(fmt.Sprintf("%d", stats.Unresolved)),
	)
	if stats.WildcardShadowed > 0 {
		statsContent += fmt.Sprintf("%s Wildcard Shadowed: %s\n",
			IconWarning,
			pterm.Yellow(fmt.Sprintf("%d", stats.WildcardShadowed)),
		)
	}
	if stats.WildcardDetected {
		statsContent += fmt.Sprintf("%s Wildcard DNS: %s\n",
			IconWarning,
			pterm.Yellow(strings.Join(stats.WildcardAddresses, ", ")),
		)
	}
	if len(stats.FailedSources) > 0 {
		statsContent += fmt.Sprintf("%s Sources Failed: %s\n",
			IconError,
			pterm.Red(strings.Join(stats.FailedSources, ", ")),
		)
	}
	statsPanel.Println(strings.TrimSuffix(statsContent, "\n"))

	if len(stats.PerSource) > 0 {
		pterm.Println()
		pterm.DefaultSection.WithLevel(2).Println("Candidates by Source")

		names := make([]string, 0, len(stats.PerSource))
		for name := range stats.PerSource {
			names = append(names, name)
		}
		sort.Strings(names)

		tableData := pterm.TableData{
			{"Source", "Unique", "Status"},
		}
		for _, name := range names {
			status := StatusSuccess
			for _, failed := range stats.FailedSources {
				if failed == name {
					status = StatusError
					break
				}
			}
			tableData = append(tableData, []string{
				name,
				fmt.Sprintf("%d", stats.PerSource[name]),
				status.Style().Sprint(status.Symbol() + " " + status.String()),
			})
		}

		pterm.DefaultTable.
			WithHasHeader().
			WithBoxed().
			WithData(tableData).
			Render()
	}

	pterm.Println()
}

// Close limpia recursos del presenter
func (p *PTermPresenter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopSpinner()
	return nil
}

// stopSpinner detiene el spinner activo. Debe llamarse con el lock.
func (p *PTermPresenter) stopSpinner() {
	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
	}
}
