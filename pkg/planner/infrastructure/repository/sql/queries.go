package sql

// FinishedGoodsGroup is the product group whose work orders are planned.
const FinishedGoodsGroup = "Mamul"

const scopeQuery = `
SELECT wo.id AS work_order_id, wo.product_id, p.product_code
FROM work_orders wo
JOIN products p ON p.id = wo.product_id
WHERE wo.tenant_id = ?
  AND wo.status IN ('NOT_STARTED', 'IN_PROGRESS')
  AND p.product_group = ?
  AND wo.sales_order_id IS NOT NULL`

const scopeWorkOrderFilter = `
  AND wo.work_order_number IN ?`

const scopeOrder = `
ORDER BY wo.planned_start_at`

const routeStepsQuery = `
SELECT r.id AS route_id, r.product_id, p.product_code, rs.sequence_index,
       w.workstation_code, rs.std_cycle_time_s_per_uom, rs.min_batch_qty
FROM routes r
JOIN products p ON p.id = r.product_id
JOIN route_steps rs ON rs.route_id = r.id
LEFT JOIN workstations w ON w.id = rs.workstation_id
WHERE r.tenant_id = ?
  AND r.product_id IN ?
  AND p.product_code IS NOT NULL
ORDER BY p.product_code, r.id, rs.sequence_index`

const workOrdersQuery = `
SELECT wo.id, wo.work_order_number, wo.qty_planned, wo.status, so.so_number,
       wo.min_prod_time, so.promised_delivery_utc, p.id AS product_id, p.product_code
FROM work_orders wo
JOIN products p ON p.id = wo.product_id
LEFT JOIN sales_orders so ON so.id = wo.sales_order_id
WHERE wo.tenant_id = ?
  AND wo.id IN ?`

const scanEventsQuery = `
SELECT be.id, be.work_order_id, be.event_type, be.event_time_utc, be.route_step_index,
       ws.workstation_code, be.produced_qty
FROM barcode_events be
LEFT JOIN workstations ws ON ws.id = be.workstation_id
WHERE be.tenant_id = ?
  AND be.work_order_id IN ?
ORDER BY be.event_time_utc DESC, be.id DESC`

const downtimesQuery = `
SELECT w.workstation_code, d.downtime_start, d.downtime_end
FROM workstation_downtimes d
JOIN workstations w ON w.id = d.workstation_id
WHERE d.tenant_id = ?
ORDER BY w.workstation_code, d.downtime_start`

const latestScheduleQuery = `
SELECT id
FROM schedules
WHERE tenant_id = ?
ORDER BY created_at DESC
LIMIT 1`

const jobCardsQuery = `
SELECT wo.work_order_number, ws.workstation_code, jc.step_index, jc.start_time_utc, jc.end_time_utc
FROM job_cards jc
JOIN work_orders wo ON wo.id = jc.work_order_id
JOIN workstations ws ON ws.id = jc.workstation_id
WHERE jc.tenant_id = ?
  AND jc.schedule_id = ?
ORDER BY wo.work_order_number, jc.start_time_utc, jc.id`
