package mysql

const upsertTrendingSQL = `
INSERT INTO trending_snapshot
  (category, service_id, service_name, average_rating, taken_at)
VALUES
  (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  service_id     = VALUES(service_id),
  service_name   = VALUES(service_name),
  average_rating = VALUES(average_rating),
  taken_at       = VALUES(taken_at)
`

const upsertServiceStatSQL = `
INSERT INTO service_stat_snapshot
  (service_id, owner_id, total_comments, total_rating, average_rating, taken_at)
VALUES
  (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  owner_id       = VALUES(owner_id),
  total_comments = VALUES(total_comments),
  total_rating   = VALUES(total_rating),
  average_rating = VALUES(average_rating),
  taken_at       = VALUES(taken_at)
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const listTrendingSQL = `
SELECT category, service_id, service_name, average_rating, taken_at
FROM trending_snapshot
ORDER BY category
`

const listServiceStatsSQL = `
SELECT service_id, owner_id, total_comments, total_rating, average_rating, taken_at
FROM service_stat_snapshot
WHERE owner_id = ?
ORDER BY service_id
`
