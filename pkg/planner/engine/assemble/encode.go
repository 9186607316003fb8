package assemble

import (
	"encoding/json"
	"time"

	"github.com/navi-mes/planfeed/pkg/planner/core/domain/model"
	"github.com/navi-mes/planfeed/pkg/planner/support/util/exception"
)

const (
	// NumericFarFuture is the delivery date reported in numeric instances for orders without a deadline.
	NumericFarFuture = 1e12
	timestampLayout  = "2006-01-02T15:04:05.999999Z07:00"
)

// TimestampFarFuture is the delivery date reported in timestamp instances for orders without a deadline.
var TimestampFarFuture = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)

// EpochSeconds converts t to fractional Unix seconds.
func EpochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

// FormatTimestamp renders t in UTC as ISO-8601 with a "Z" suffix.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// NumericOrder is an order record with epoch-second times.
type NumericOrder struct {
	SalesOrder        *string  `json:"Sales Order"`
	Product           string   `json:"Product"`
	Quantity          float64  `json:"Quantity"`
	MinProductionTime float64  `json:"Minimum Production Time"`
	DeliveryDate      float64  `json:"Delivery Date"`
	LastProcess       *int     `json:"Last Process"`
	Status            string   `json:"Status"`
	PastMachines      []string `json:"Past Machines"`
	CurrentlyRunning  bool     `json:"Currently Running"`
}

// NumericPayload is the compact instance form.
type NumericPayload struct {
	Cycle            model.CycleTable        `json:"cycle"`
	MinBatch         model.MinBatchTable     `json:"minibatch"`
	BOM              model.RouteTable        `json:"bom_data"`
	Orders           map[string]NumericOrder `json:"orders"`
	MachineDowntimes map[string][][2]float64 `json:"machine_downtimes"`
	MaxProcTime      int                     `json:"max_proc_time"`
	PresentTime      float64                 `json:"present_time"`
	Trigger          string                  `json:"trigger"`
	RunID            string                  `json:"run_id"`
}

// EncodeNumeric renders inst with epoch-second times. An absent anchor becomes 0.
func EncodeNumeric(inst *model.Instance) NumericPayload {
	orders := make(map[string]NumericOrder, len(inst.Orders))
	for number, o := range inst.Orders {
		rec := NumericOrder{
			SalesOrder:       o.SalesOrder,
			Product:          o.Product,
			Quantity:         o.Quantity,
			DeliveryDate:     NumericFarFuture,
			LastProcess:      o.LastProcess,
			Status:           string(o.Status),
			PastMachines:     nonNil(o.PastMachines),
			CurrentlyRunning: o.CurrentlyRunning,
		}
		if o.MinProductionTime != nil {
			rec.MinProductionTime = EpochSeconds(*o.MinProductionTime)
		}
		if o.DeliveryDate != nil {
			rec.DeliveryDate = EpochSeconds(*o.DeliveryDate)
		}
		orders[number] = rec
	}

	downtimes := make(map[string][][2]float64, len(inst.Downtimes))
	for ws, windows := range inst.Downtimes {
		out := make([][2]float64, 0, len(windows))
		for _, w := range windows {
			out = append(out, [2]float64{EpochSeconds(w.Start), EpochSeconds(w.End)})
		}
		downtimes[ws] = out
	}

	return NumericPayload{
		Cycle:            inst.Cycle,
		MinBatch:         inst.MinBatch,
		BOM:              inst.Routes,
		Orders:           orders,
		MachineDowntimes: downtimes,
		MaxProcTime:      inst.MaxProcTime,
		PresentTime:      EpochSeconds(inst.Metadata.PresentTime),
		Trigger:          inst.Metadata.Trigger,
		RunID:            inst.Metadata.RunID,
	}
}

// TimestampOrder is an order record with ISO timestamps.
type TimestampOrder struct {
	SalesOrder        *string  `json:"Sales Order"`
	Product           string   `json:"Product"`
	Quantity          float64  `json:"Quantity"`
	MinProductionTime *string  `json:"Minimum Production Time"`
	DeliveryDate      string   `json:"Delivery Date"`
	LastProcess       *int     `json:"Last Process"`
	Status            string   `json:"Status"`
	PastMachines      []string `json:"Past Machines"`
	CurrentlyRunning  bool     `json:"Currently Running"`
}

// ScheduleEntry is one job card rendered as [process index, workstation, start, end].
type ScheduleEntry struct {
	ProcessIndex int
	Workstation  string
	Start        *string
	End          *string
}

// MarshalJSON renders the entry as a heterogeneous JSON array.
func (e ScheduleEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{e.ProcessIndex, e.Workstation, e.Start, e.End})
}

// EmployeeShift describes the shift boundaries.
type EmployeeShift struct {
	FirstShiftEnd string `json:"first_shift_end"`
	DayShiftEnd   string `json:"day_shift_end"`
	NightShiftEnd string `json:"night_shift_end"`
	Frequency     int    `json:"frequency"`
}

// TimestampData is the body of a timestamp instance.
type TimestampData struct {
	Cycle            model.CycleTable           `json:"cycle"`
	MinBatch         model.MinBatchTable        `json:"minibatch"`
	BOM              model.RouteTable           `json:"bom_data"`
	Orders           map[string]TimestampOrder  `json:"orders"`
	MachineDowntimes map[string][][2]string     `json:"machine_downtimes"`
	CurrentSchedule  map[string][]ScheduleEntry `json:"current_schedule"`
	CannotProduce    map[string]interface{}     `json:"cannot_produce"`
	FactoryClosure   []interface{}              `json:"factory_closure"`
	BreakTimes       []interface{}              `json:"break_times"`
	StorageMapping   map[string]string          `json:"storage_mapping"`
	Storage          map[string]interface{}     `json:"storage"`
	MaxWaitTimes     map[string]int             `json:"max_wait_times"`
	EmployeeShift    EmployeeShift              `json:"employee_shift"`
	ObjFuncRanking   map[string]int             `json:"obj_func_ranking"`
	NoBreakMachines  []string                   `json:"no_break_machines"`
	NeedAtLeast30Min []string                   `json:"need_at_least_30_min"`
}

// TimestampPayload is the timestamp instance form.
type TimestampPayload struct {
	Data             TimestampData `json:"data"`
	NewPlanStartTime string        `json:"new_plan_start_time"`
	PresentTime      string        `json:"present_time"`
	Trigger          string        `json:"trigger"`
	RunID            string        `json:"run_id"`
}

// EncodeTimestamp renders inst with ISO timestamps and the scheduling metadata.
func EncodeTimestamp(inst *model.Instance) TimestampPayload {
	orders := make(map[string]TimestampOrder, len(inst.Orders))
	for number, o := range inst.Orders {
		delivery := TimestampFarFuture
		if o.DeliveryDate != nil {
			delivery = *o.DeliveryDate
		}
		orders[number] = TimestampOrder{
			SalesOrder:        o.SalesOrder,
			Product:           o.Product,
			Quantity:          o.Quantity,
			MinProductionTime: formatPtr(o.MinProductionTime),
			DeliveryDate:      FormatTimestamp(delivery),
			LastProcess:       o.LastProcess,
			Status:            string(o.Status),
			PastMachines:      nonNil(o.PastMachines),
			CurrentlyRunning:  o.CurrentlyRunning,
		}
	}

	downtimes := make(map[string][][2]string, len(inst.Downtimes))
	for ws, windows := range inst.Downtimes {
		out := make([][2]string, 0, len(windows))
		for _, w := range windows {
			out = append(out, [2]string{FormatTimestamp(w.Start), FormatTimestamp(w.End)})
		}
		downtimes[ws] = out
	}

	schedule := make(map[string][]ScheduleEntry, len(inst.CurrentSchedule))
	for number, steps := range inst.CurrentSchedule {
		entries := make([]ScheduleEntry, 0, len(steps))
		for _, s := range steps {
			entries = append(entries, ScheduleEntry{
				ProcessIndex: s.ProcessIndex,
				Workstation:  s.Workstation,
				Start:        formatPtr(s.Start),
				End:          formatPtr(s.End),
			})
		}
		schedule[number] = entries
	}

	present := FormatTimestamp(inst.Metadata.PresentTime)
	return TimestampPayload{
		Data: TimestampData{
			Cycle:            inst.Cycle,
			MinBatch:         inst.MinBatch,
			BOM:              inst.Routes,
			Orders:           orders,
			MachineDowntimes: downtimes,
			CurrentSchedule:  schedule,
			CannotProduce:    map[string]interface{}{},
			FactoryClosure:   []interface{}{},
			BreakTimes:       []interface{}{},
			StorageMapping:   nonNilStrings(inst.Operations.StorageMapping),
			Storage:          map[string]interface{}{},
			MaxWaitTimes:     nonNilInts(inst.Operations.MaxWaitTimes),
			EmployeeShift: EmployeeShift{
				FirstShiftEnd: FormatTimestamp(inst.FirstShiftEnd),
				DayShiftEnd:   inst.Shift.DayShiftEnd.String(),
				NightShiftEnd: inst.Shift.NightShiftEnd.String(),
				Frequency:     inst.Shift.FrequencyMinutes,
			},
			ObjFuncRanking:   nonNilInts(inst.Operations.ObjectiveRanking),
			NoBreakMachines:  []string{},
			NeedAtLeast30Min: []string{},
		},
		NewPlanStartTime: present,
		PresentTime:      present,
		Trigger:          inst.Metadata.Trigger,
		RunID:            inst.Metadata.RunID,
	}
}

// Encode renders inst according to its variant.
func Encode(inst *model.Instance) (interface{}, error) {
	switch inst.Metadata.Variant {
	case model.VariantNumeric:
		return EncodeNumeric(inst), nil
	case model.VariantTimestamp:
		return EncodeTimestamp(inst), nil
	default:
		return nil, exception.NewPlannerErrorf("assemble", "cannot encode variant %q", inst.Metadata.Variant, exception.ErrUnknownVariant)
	}
}

func formatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := FormatTimestamp(*t)
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilStrings(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func nonNilInts(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}
