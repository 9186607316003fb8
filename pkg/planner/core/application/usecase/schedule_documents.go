package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/hashicorp/go-multierror"

	"github.com/navi-mes/planfeed/pkg/planner/adapter/storage"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/exception"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/logger"
)

// requiredScheduleFields are the top-level keys every schedule document must carry.
var requiredScheduleFields = []string{"machines", "items"}

// ScheduleStore persists the externally computed schedule document.
type ScheduleStore interface {
	Save(ctx context.Context, doc map[string]interface{}) error
	Load(ctx context.Context) (json.RawMessage, error)
}

// ScheduleDocuments keeps the latest schedule as a single object in object storage.
// The document is opaque apart from its required top-level fields.
type ScheduleDocuments struct {
	conn   storage.StorageConnection
	bucket string
	object string
}

var _ ScheduleStore = (*ScheduleDocuments)(nil)

// NewScheduleDocuments stores documents at bucket/object on conn.
func NewScheduleDocuments(conn storage.StorageConnection, bucket, object string) *ScheduleDocuments {
	return &ScheduleDocuments{conn: conn, bucket: bucket, object: object}
}

// ValidateSchedule reports every missing required field.
func ValidateSchedule(doc map[string]interface{}) error {
	var result *multierror.Error
	for _, field := range requiredScheduleFields {
		if _, ok := doc[field]; !ok {
			result = multierror.Append(result, fmt.Errorf("missing field %q", field))
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		return exception.NewPlannerError("schedule", "Schedule payload must include 'machines' and 'items'", errors.Join(exception.ErrInvalidSchedule, err), false)
	}
	return nil
}

// Save validates doc and replaces the stored schedule.
func (d *ScheduleDocuments) Save(ctx context.Context, doc map[string]interface{}) error {
	if err := ValidateSchedule(doc); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return exception.NewPlannerError("schedule", "failed to encode schedule", err, false)
	}
	if err := d.conn.Upload(ctx, d.bucket, d.object, bytes.NewReader(raw), "application/json"); err != nil {
		return exception.NewPlannerError("schedule", "failed to store schedule", err, false)
	}
	logger.Infow("schedule stored", "bucket", d.bucket, "object", d.object, "bytes", len(raw))
	return nil
}

// Load returns the stored schedule, or an error matching exception.ErrScheduleNotFound.
func (d *ScheduleDocuments) Load(ctx context.Context) (json.RawMessage, error) {
	rc, err := d.conn.Download(ctx, d.bucket, d.object)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, exception.NewPlannerError("schedule", "no schedule uploaded yet", exception.ErrScheduleNotFound, false)
		}
		return nil, exception.NewPlannerError("schedule", "failed to read schedule", err, false)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, exception.NewPlannerError("schedule", "failed to read schedule", err, false)
	}
	if !json.Valid(raw) {
		return nil, exception.NewPlannerError("schedule", "stored schedule is not valid JSON", exception.ErrInvalidSchedule, false)
	}
	return json.RawMessage(raw), nil
}
