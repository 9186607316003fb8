package usecase

import (
	"context"

	"go.uber.org/fx"

	"github.com/navi-mes/planfeed/pkg/planner/adapter/storage"
	port "github.com/navi-mes/planfeed/pkg/planner/core/application/port"
	"github.com/navi-mes/planfeed/pkg/planner/core/config"
	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
	"github.com/navi-mes/planfeed/pkg/planner/core/domain/repository"
)

// SynthesizerParams defines the dependencies for NewSynthesizerProvider.
type SynthesizerParams struct {
	fx.In
	Store          repository.PlanningStore
	Config         *config.Config
	Policy         model.Policy
	RunListeners   []port.RunListener   `group:"run_listeners"`
	StageListeners []port.StageListener `group:"stage_listeners"`
}

// NewSynthesizerProvider builds the Synthesizer from configuration and the registered listeners.
func NewSynthesizerProvider(p SynthesizerParams) (*Synthesizer, error) {
	variant, err := model.ParseVariant(p.Config.Planner.Synthesis.DefaultVariant)
	if err != nil {
		return nil, err
	}
	defaults := Defaults{
		TenantID: p.Config.Planner.Synthesis.DefaultTenant,
		Trigger:  p.Config.Planner.Synthesis.DefaultTrigger,
		Variant:  variant,
	}
	return NewSynthesizer(p.Store, p.Policy, defaults,
		WithRunListeners(p.RunListeners...),
		WithStageListeners(p.StageListeners...),
	), nil
}

// NewScheduleStoreProvider resolves the storage connection configured for schedule documents.
func NewScheduleStoreProvider(cfg *config.Config, resolver storage.StorageConnectionResolver) (*ScheduleDocuments, error) {
	infra := cfg.Planner.Infrastructure
	conn, err := resolver.ResolveStorageConnection(context.Background(), infra.ScheduleStorageRef)
	if err != nil {
		return nil, err
	}
	return NewScheduleDocuments(conn, infra.ScheduleBucket, infra.ScheduleObject), nil
}

// Module provides the synthesis and schedule document use cases.
var Module = fx.Options(
	fx.Provide(fx.Annotate(
		NewSynthesizerProvider,
		fx.As(new(InstanceSynthesizer)),
	)),
	fx.Provide(fx.Annotate(
		NewScheduleStoreProvider,
		fx.As(new(ScheduleStore)),
	)),
)
