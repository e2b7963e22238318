// Package counting contiene la lógica pura de reconciliación de ventanas
// (servicio de dominio, sin dependencias de infraestructura).
package counting

import (
	"sort"
	"time"
)

// Window intervalo semiabierto [Start, End) de un pass enviado.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains indica si t cae dentro de la ventana: Start <= t < End.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}

// Merge une un conjunto de ventanas posiblemente solapadas en el conjunto
// mínimo de intervalos disyuntos (sort por inicio + merge lineal). Un
// movimiento que cae en el solape de dos passes debe contarse exactamente
// una vez; sumar sobre las ventanas unidas lo garantiza.
// Ventanas vacías o invertidas (End <= Start) se descartan.
func Merge(windows []Window) []Window {
	valid := make([]Window, 0, len(windows))
	for _, w := range windows {
		if w.End.After(w.Start) {
			valid = append(valid, w)
		}
	}
	if len(valid) == 0 {
		return nil
	}

	sort.Slice(valid, func(i, j int) bool { return valid[i].Start.Before(valid[j].Start) })

	merged := []Window{valid[0]}
	for _, w := range valid[1:] {
		last := &merged[len(merged)-1]
		// Semiabierto: [0,5) y [5,10) son contiguas y se unen en [0,10).
		if !w.Start.After(last.End) {
			if w.End.After(last.End) {
				last.End = w.End
			}
			continue
		}
		merged = append(merged, w)
	}
	return merged
}

// Span colapsa las ventanas en un único intervalo [min inicio, max fin).
// Es la política session_span: aproximación documentada para sesiones con
// pocos passes, donde llevar la contabilidad de solapes no aporta.
func Span(windows []Window) []Window {
	var span Window
	found := false
	for _, w := range windows {
		if !w.End.After(w.Start) {
			continue
		}
		if !found {
			span = w
			found = true
			continue
		}
		if w.Start.Before(span.Start) {
			span.Start = w.Start
		}
		if w.End.After(span.End) {
			span.End = w.End
		}
	}
	if !found {
		return nil
	}
	return []Window{span}
}

// AnyContains indica si t cae en alguna de las ventanas.
func AnyContains(windows []Window, t time.Time) bool {
	for _, w := range windows {
		if w.Contains(t) {
			return true
		}
	}
	return false
}
