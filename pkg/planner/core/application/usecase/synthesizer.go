package usecase

import (
	"context"
	"time"

	port "github.com/navi-mes/planfeed/pkg/planner/core/application/port"
	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
	"github.com/navi-mes/planfeed/pkg/planner/core/domain/repository"
	"github.com/navi-mes/planfeed/pkg/planner/engine/assemble"
	"github.com/navi-mes/planfeed/pkg/planner/engine/availability"
	"github.com/navi-mes/planfeed/pkg/planner/engine/padding"
	"github.com/navi-mes/planfeed/pkg/planner/engine/reconcile"
	"github.com/navi-mes/planfeed/pkg/planner/engine/scope"
	"github.com/navi-mes/planfeed/pkg/planner/engine/structure"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/exception"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

const moduleName = "synthesis"

// Request describes one synthesis call. Zero fields fall back to the synthesizer defaults.
type Request struct {
	TenantID string
	Trigger  string
	// PresentTime overrides the clock, e.g. to replay a past situation.
	PresentTime *time.Time
	Variant     model.Variant
	// Policy replaces the configured policy for this run only.
	Policy *model.Policy
}

// Defaults are applied to empty Request fields.
type Defaults struct {
	TenantID string
	Trigger  string
	Variant  model.Variant
}

// InstanceSynthesizer builds planning instances.
type InstanceSynthesizer interface {
	Synthesize(ctx context.Context, req Request) (*model.Instance, error)
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(s *Synthesizer) { s.now = now }
}

// WithRunListeners registers run listeners.
func WithRunListeners(listeners ...port.RunListener) Option {
	return func(s *Synthesizer) { s.runListeners = append(s.runListeners, listeners...) }
}

// WithStageListeners registers stage listeners.
func WithStageListeners(listeners ...port.StageListener) Option {
	return func(s *Synthesizer) { s.stageListeners = append(s.stageListeners, listeners...) }
}

// Synthesizer runs the synthesis pipeline against a PlanningStore.
// It holds no per-request state and may serve concurrent requests.
type Synthesizer struct {
	store          repository.PlanningStore
	scope          *scope.Resolver
	policy         model.Policy
	defaults       Defaults
	runListeners   []port.RunListener
	stageListeners []port.StageListener
	now            func() time.Time
}

var _ InstanceSynthesizer = (*Synthesizer)(nil)

// NewSynthesizer creates a Synthesizer reading from store with the given default policy.
func NewSynthesizer(store repository.PlanningStore, policy model.Policy, defaults Defaults, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		store:    store,
		scope:    scope.NewResolver(store),
		policy:   policy,
		defaults: defaults,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize builds the planning instance for req.
// Empty scope is not an error; only store failures and unknown variants are.
func (s *Synthesizer) Synthesize(ctx context.Context, req Request) (*model.Instance, error) {
	req = s.withDefaults(req)
	if _, err := model.ParseVariant(string(req.Variant)); err != nil {
		return nil, exception.NewPlannerErrorf(moduleName, "cannot synthesize variant %q", req.Variant, exception.ErrUnknownVariant)
	}

	run := model.NewSynthesisRun(model.RunMetadata{
		TenantID:    req.TenantID,
		Variant:     req.Variant,
		Trigger:     req.Trigger,
		PresentTime: *req.PresentTime,
	}, s.now())
	logger.Debugw("synthesis requested", "run_id", run.RunID, "tenant", run.TenantID, "variant", run.Variant)

	for _, l := range s.runListeners {
		l.BeforeRun(ctx, run)
	}

	inst, err := s.execute(ctx, run, *req.Policy)
	if inst != nil {
		run.Summary = assemble.Summarize(inst)
	}
	run.Finish(s.now(), err)

	for _, l := range s.runListeners {
		l.AfterRun(ctx, run)
	}
	if err != nil {
		return nil, err
	}
	return inst, nil
}

func (s *Synthesizer) withDefaults(req Request) Request {
	if req.TenantID == "" {
		req.TenantID = s.defaults.TenantID
	}
	if req.Trigger == "" {
		req.Trigger = s.defaults.Trigger
	}
	if req.Variant == "" {
		req.Variant = s.defaults.Variant
	}
	if req.PresentTime == nil {
		now := s.now().UTC()
		req.PresentTime = &now
	}
	if req.Policy == nil {
		p := s.policy
		req.Policy = &p
	}
	return req
}

func (s *Synthesizer) execute(ctx context.Context, run *model.SynthesisRun, policy model.Policy) (*model.Instance, error) {
	rules := model.RulesFor(run.Variant)
	tenant := run.TenantID
	present := run.PresentTime

	var sc model.Scope
	err := s.stage(ctx, run, model.StageScope, func(st *model.StageExecution) error {
		var rep scope.Report
		var err error
		sc, rep, err = s.scope.Resolve(ctx, tenant, policy)
		st.Merge(rep.Counts())
		return err
	})
	if err != nil {
		return nil, err
	}

	var built model.Structure
	err = s.stage(ctx, run, model.StageStructure, func(st *model.StageExecution) error {
		var steps []model.RouteStepRecord
		if len(sc.ProductIDs) > 0 {
			var err error
			if steps, err = s.store.FindRouteSteps(ctx, tenant, sc.ProductIDs); err != nil {
				return exception.NewStoreError("failed to load route steps", err)
			}
		}
		var rep structure.Report
		built, rep = structure.Build(steps, policy.TimeUnitSeconds)
		st.Merge(rep.Counts())
		return nil
	})
	if err != nil {
		return nil, err
	}

	var normalized model.Structure
	err = s.stage(ctx, run, model.StageNormalize, func(st *model.StageExecution) error {
		var rep padding.Report
		normalized, rep = padding.Normalize(built, policy)
		st.Merge(rep.Counts())
		return nil
	})
	if err != nil {
		return nil, err
	}

	var orders map[string]model.Order
	err = s.stage(ctx, run, model.StageReconcile, func(st *model.StageExecution) error {
		var workOrders []model.WorkOrderRecord
		var events []model.ScanEventRecord
		if !sc.IsEmpty() {
			var err error
			if workOrders, err = s.store.FindWorkOrders(ctx, tenant, sc.WorkOrderIDs); err != nil {
				return exception.NewStoreError("failed to load work orders", err)
			}
			if events, err = s.store.FindScanEvents(ctx, tenant, sc.WorkOrderIDs); err != nil {
				return exception.NewStoreError("failed to load scan events", err)
			}
		}
		var rep reconcile.Report
		orders, rep = reconcile.Reconcile(reconcile.Input{
			WorkOrderIDs: sc.WorkOrderIDs,
			WorkOrders:   workOrders,
			Events:       events,
			LastProcess:  built.LastProcess,
			PresentTime:  present,
			Rules:        rules,
		})
		st.Merge(rep.Counts())
		return nil
	})
	if err != nil {
		return nil, err
	}

	var downtimes model.DowntimeTable
	err = s.stage(ctx, run, model.StageAvailability, func(st *model.StageExecution) error {
		records, err := s.store.FindDowntimes(ctx, tenant)
		if err != nil {
			return exception.NewStoreError("failed to load downtimes", err)
		}
		var rep availability.Report
		downtimes, rep = availability.Derive(availability.Input{
			Downtimes:       records,
			Orders:          orders,
			Cycle:           normalized.Cycle,
			PresentTime:     present,
			Rules:           rules,
			TimeUnitSeconds: policy.TimeUnitSeconds,
		})
		st.Merge(rep.Counts())
		return nil
	})
	if err != nil {
		return nil, err
	}

	var schedule map[string][]model.ScheduledStep
	if rules.IncludeCurrentSchedule {
		err = s.stage(ctx, run, model.StageSchedule, func(st *model.StageExecution) error {
			cards, err := s.store.FindLatestScheduleJobCards(ctx, tenant)
			if err != nil {
				return exception.NewStoreError("failed to load current schedule", err)
			}
			schedule = assemble.BuildCurrentSchedule(cards)
			st.Merge(map[string]int{"job_cards": len(cards), "scheduled_orders": len(schedule)})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	var inst *model.Instance
	err = s.stage(ctx, run, model.StageAssemble, func(st *model.StageExecution) error {
		inst = assemble.Assemble(assemble.Input{
			Metadata:        run.RunMetadata,
			Structure:       normalized,
			Orders:          orders,
			Downtimes:       downtimes,
			CurrentSchedule: schedule,
			Policy:          policy,
		})
		sum := assemble.Summarize(inst)
		st.Merge(map[string]int{
			"orders":           sum.Orders,
			"products":         sum.Products,
			"routes":           sum.Routes,
			"downtime_windows": sum.DowntimeWindows,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// stage runs fn as a named stage, notifying stage listeners around it.
func (s *Synthesizer) stage(ctx context.Context, run *model.SynthesisRun, name string, fn func(*model.StageExecution) error) error {
	st := model.NewStageExecution(run, name, s.now())
	for _, l := range s.stageListeners {
		l.BeforeStage(ctx, st)
	}
	err := fn(st)
	st.Finish(s.now(), err)
	for _, l := range s.stageListeners {
		l.AfterStage(ctx, st)
	}
	return err
}
