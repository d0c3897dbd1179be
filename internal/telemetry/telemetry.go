// Package telemetry wraps pipeline.Schedule with observability: one
// OpenTelemetry span per phase, a Prometheus phase-duration histogram,
// and a handful of Prometheus gauges (makespan, SLR, AVU, VF). It is a pure outer
// decorator — internal/pipeline and the phase packages it wraps never
// import this package, keeping the core's "no I/O inside the core"
// contract (spec §5) intact.
//
// Grounded on perf-analysis's tracing-around-pipeline-stages pattern
// (go.opentelemetry.io/otel) and divinesense's direct use of
// prometheus/client_golang for a handful of named gauges rather than a
// push-gateway integration.
package telemetry

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-dagsched/dagsched/internal/dcp"
	"github.com/go-dagsched/dagsched/internal/lotd"
	"github.com/go-dagsched/dagsched/internal/metrics"
	"github.com/go-dagsched/dagsched/internal/model"
	"github.com/go-dagsched/dagsched/internal/smgt"
)

var tracer = otel.Tracer("github.com/go-dagsched/dagsched/internal/pipeline")

var (
	phaseDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dagsched",
		Name:      "phase_duration_seconds",
		Help:      "Wall-clock duration of each scheduling phase.",
	}, []string{"phase"})

	makespanGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dagsched",
		Name:      "makespan_seconds",
		Help:      "Makespan of the most recently completed scheduling run.",
	})

	slrGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dagsched",
		Name:      "schedule_length_ratio",
		Help:      "Schedule Length Ratio of the most recently completed run.",
	})

	avuGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dagsched",
		Name:      "average_vm_utilization",
		Help:      "Average VM utilization of the most recently completed run.",
	})

	vfGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "dagsched",
		Name:      "variance_of_fairness",
		Help:      "Variance of Fairness of the most recently completed run.",
	})
)

// Registry returns a Prometheus registry pre-populated with this
// package's collectors, ready to be exposed by an HTTP handler.
func Registry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(phaseDuration, makespanGauge, slrGauge, avuGauge, vfGauge)
	return reg
}

// Schedule runs the DCP -> SMGT -> LOTD pipeline exactly like
// pipeline.Schedule, instrumented with one span per phase and the
// gauges above updated from the final result.
func Schedule(ctx context.Context, dag *model.DAG, vms []*model.VM, ccr float64, sel lotd.CandidateSelector) (*model.Schedule, error) {
	ctx, span := tracer.Start(ctx, "dagsched.Schedule", trace.WithAttributes(
		attribute.Float64("ccr", ccr),
		attribute.Int("vm_count", len(vms)),
	))
	defer span.End()

	meanBW := model.MeanBandwidth(vms)
	costTable := model.BuildCostTable(dag, ccr, meanBW)

	dcpResult, err := timedPhase(ctx, "dcp", func(ctx context.Context) (*dcp.Result, error) {
		return dcp.Compute(dag, vms, costTable)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	pre, err := timedPhase(ctx, "smgt", func(ctx context.Context) (*model.Schedule, error) {
		return smgt.Run(dag, vms, dcpResult.Ranks, costTable, meanBW)
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	pre.CriticalPath = dcpResult.CriticalPath
	pre.Levels = dcpResult.Levels

	final, _ := timedPhase(ctx, "lotd", func(ctx context.Context) (*model.Schedule, error) {
		return lotd.Run(dag, vms, pre, costTable, meanBW, sel), nil
	})

	makespan := final.Makespan()
	makespanGauge.Set(makespan)
	slrGauge.Set(metrics.SLR(makespan, final.CriticalPath, dag.Tasks(), vms))
	vmOf := make(map[int]*model.VM, len(vms))
	for _, v := range vms {
		vmOf[v.ID] = v
	}
	avuGauge.Set(metrics.AVU(final.VMSchedule, dag.Tasks(), vmOf, makespan))
	assigned := make(map[int]*model.VM, len(final.TaskToVM))
	for id, vmID := range final.TaskToVM {
		assigned[id] = vmOf[vmID]
	}
	vfGauge.Set(metrics.VF(dag.Tasks(), assigned, vms))

	return final, nil
}

func timedPhase[T any](ctx context.Context, name string, fn func(context.Context) (T, error)) (T, error) {
	_, span := tracer.Start(ctx, "dagsched."+name)
	defer span.End()

	start := time.Now()
	result, err := fn(ctx)
	phaseDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())

	return result, err
}
