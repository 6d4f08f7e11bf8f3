// Package metrics は menu application の Recorder を Prometheus カウンタで実装する。
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sngm3741/catering-admin/api/internal/menu/domain"
)

const namespace = "catering"

// Recorder はメニュー作成と選択登録の件数を記録する。
type Recorder struct {
	registry          *prometheus.Registry
	menusCreated      *prometheus.CounterVec
	menuConflicts     prometheus.Counter
	selections        *prometheus.CounterVec
	selectionRejected *prometheus.CounterVec
}

// NewRecorder は専用レジストリにカウンタと Go ランタイム系のコレクタを登録する。
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		menusCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "menus_created_total",
			Help:      "Menus created by scope kind.",
		}, []string{"scope"}),
		menuConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "menu_create_conflicts_total",
			Help:      "Menu creations that lost the race on the unique key and re-read the winner.",
		}),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_total",
			Help:      "Recorded selections by letter and result (created or updated).",
		}, []string{"letter", "result"}),
		selectionRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selections_rejected_total",
			Help:      "Rejected selection attempts by reason.",
		}, []string{"reason"}),
	}
	r.registry.MustRegister(
		r.menusCreated,
		r.menuConflicts,
		r.selections,
		r.selectionRejected,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) MenuCreated(scope domain.ScopeKind) {
	r.menusCreated.WithLabelValues(string(scope)).Inc()
}

func (r *Recorder) MenuCreateConflict() {
	r.menuConflicts.Inc()
}

func (r *Recorder) SelectionRecorded(letter domain.Selection, created bool) {
	result := "updated"
	if created {
		result = "created"
	}
	r.selections.WithLabelValues(string(letter), result).Inc()
}

func (r *Recorder) SelectionRejected(reason string) {
	r.selectionRejected.WithLabelValues(reason).Inc()
}

// Handler は /metrics 用のハンドラを返す。
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry はテストや追加コレクタ登録のために内部レジストリを公開する。
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
