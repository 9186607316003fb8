// Package logging provides listeners that log the progress of synthesis runs.
package logging

import (
	"context"
	"sort"
	"strconv"
	"strings"

	port "github.com/navi-mes/planfeed/pkg/planner/core/application/port"
	model "github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
	logger "github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

// --- Run Listener ---

type LoggingRunListener struct{}

func NewLoggingRunListener() port.RunListener {
	return &LoggingRunListener{}
}

func (l *LoggingRunListener) BeforeRun(ctx context.Context, run *model.SynthesisRun) {
	logger.Infof("RunListener: BeforeRun - RunID: %s, Tenant: %s, Variant: %s, Trigger: %s, Present: %s",
		run.RunID, run.TenantID, run.Variant, run.Trigger, run.PresentTime.Format("2006-01-02T15:04:05Z07:00"))
}

func (l *LoggingRunListener) AfterRun(ctx context.Context, run *model.SynthesisRun) {
	if run.Err != nil {
		logger.Errorf("RunListener: AfterRun - RunID: %s, Status: %s, Duration: %s, Error: %v",
			run.RunID, run.Status, run.Duration(), run.Err)
		return
	}
	logger.Infof("RunListener: AfterRun - RunID: %s, Status: %s, Duration: %s, Orders: %d, Products: %d, Routes: %d, Downtimes: %d",
		run.RunID, run.Status, run.Duration(), run.Summary.Orders, run.Summary.Products, run.Summary.Routes, run.Summary.DowntimeWindows)
}

var _ port.RunListener = (*LoggingRunListener)(nil)

// --- Stage Listener ---

type LoggingStageListener struct{}

func NewLoggingStageListener() port.StageListener {
	return &LoggingStageListener{}
}

func (l *LoggingStageListener) BeforeStage(ctx context.Context, stage *model.StageExecution) {
	logger.Debugf("StageListener: BeforeStage - Stage: %s, RunID: %s", stage.Name, stage.RunID)
}

// AfterStage logs the stage counters. Skipped records are logged at warn level.
func (l *LoggingStageListener) AfterStage(ctx context.Context, stage *model.StageExecution) {
	logger.Debugf("StageListener: AfterStage - Stage: %s, Status: %s, Duration: %s, Counts: %s",
		stage.Name, stage.Status, stage.Duration(), formatCounts(stage.Counts, false))
	if skipped := formatCounts(stage.Counts, true); skipped != "" {
		logger.Warnf("StageListener: Stage %s left out records (RunID: %s): %s", stage.Name, stage.RunID, skipped)
	}
}

var _ port.StageListener = (*LoggingStageListener)(nil)

// formatCounts renders counts as sorted key=value pairs, optionally only the skipped_* ones.
func formatCounts(counts map[string]int, onlySkipped bool) string {
	keys := make([]string, 0, len(counts))
	for k, v := range counts {
		if v == 0 {
			continue
		}
		if onlySkipped && !strings.HasPrefix(k, "skipped_") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(strconv.Itoa(counts[k]))
	}
	return b.String()
}
