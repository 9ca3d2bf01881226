// Package enginemetrics registers the engine's counters and timers with
// docker/go-metrics, grounded on the teacher's metrics package (a
// process-wide prometheus.Namespace per concern, registered once in
// init()) and registry/proxy/proxymetrics.go (labeled counters per
// outcome, incremented from the call sites that produce that outcome).
package enginemetrics

import (
	"time"

	"github.com/docker/go-metrics"
)

// NamespacePrefix matches the teacher's "registry" prefix, renamed to this
// engine's own domain.
const NamespacePrefix = "scope"

// EngineNamespace groups every metric the Scope façade emits.
var EngineNamespace = metrics.NewNamespace(NamespacePrefix, "engine", nil)

var (
	putManyTotal = EngineNamespace.NewLabeledCounter(
		"put_many_total", "Total putMany calls by outcome", "result")
	importManyTotal = EngineNamespace.NewLabeledCounter(
		"import_many_total", "Total ids resolved by importMany by source", "source")
	exportManyTotal = EngineNamespace.NewLabeledCounter(
		"export_many_total", "Total exportMany calls by outcome", "result")
	removeManyTotal = EngineNamespace.NewLabeledCounter(
		"remove_many_total", "Total removeMany calls by outcome", "result")
	migrateTotal = EngineNamespace.NewLabeledCounter(
		"migrate_total", "Total migrate calls by outcome", "result")

	persistDuration = EngineNamespace.NewTimer(
		"persist_duration_seconds", "Time spent in Repository.Persist calls")
)

func init() {
	metrics.Register(EngineNamespace)
}

// ObservePutMany records one putMany call's outcome: "ok", "specs_failed",
// or "error".
func ObservePutMany(result string) { putManyTotal.WithValues(result).Inc(1) }

// ObserveImportMany records n ids resolved from source: "local" or
// "remote".
func ObserveImportMany(source string, n int) { importManyTotal.WithValues(source).Inc(float64(n)) }

// ObserveExportMany records one exportMany call's outcome: "ok" or
// "push_failed".
func ObserveExportMany(result string) { exportManyTotal.WithValues(result).Inc(1) }

// ObserveRemoveMany records one removeMany call's outcome: "removed",
// "has_dependents", or "error".
func ObserveRemoveMany(result string) { removeManyTotal.WithValues(result).Inc(1) }

// ObserveMigrate records one migrate call's outcome: "noop", "ran", or
// "error".
func ObserveMigrate(result string) { migrateTotal.WithValues(result).Inc(1) }

// TimePersist records the duration of a Repository.Persist call that
// started at start.
func TimePersist(start time.Time) { persistDuration.UpdateSince(start) }
