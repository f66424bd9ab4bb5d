package dashboard

// PoolTab holds connection pool gauges. The connection history only carries
// meaning once a snapshot has reported a secondary pool.
type PoolTab struct {
	metrics        *History[PoolMetrics]
	connections    *History[ConnectionMetrics]
	hasConnections bool
	config         PoolConfig
}

// NewPoolTab creates an empty pool tab with the given retention windows.
func NewPoolTab(metricsCapacity, connectionsCapacity int) *PoolTab {
	return &PoolTab{
		metrics:     NewHistory[PoolMetrics](metricsCapacity),
		connections: NewHistory[ConnectionMetrics](connectionsCapacity),
	}
}

// Ingest records one poll of the pool source.
func (t *PoolTab) Ingest(s PoolSnapshot) {
	t.AppendMetrics(s.Metrics)
	if s.Connections != nil {
		t.AppendConnections(*s.Connections)
	}
	if s.Config != nil {
		t.ReplaceConfig(*s.Config)
	}
}

// AppendMetrics records query pool gauges.
func (t *PoolTab) AppendMetrics(m PoolMetrics) {
	t.metrics.Push(m)
}

// AppendConnections records connection pool gauges.
func (t *PoolTab) AppendConnections(m ConnectionMetrics) {
	t.hasConnections = true
	t.connections.Push(m)
}

// ReplaceConfig overwrites the pool configuration.
func (t *PoolTab) ReplaceConfig(c PoolConfig) {
	t.config = c
}

// Metrics returns the query pool history.
func (t *PoolTab) Metrics() *History[PoolMetrics] {
	return t.metrics
}

// Connections returns the connection pool history.
func (t *PoolTab) Connections() *History[ConnectionMetrics] {
	return t.connections
}

// HasConnections reports whether a secondary pool has ever been seen.
func (t *PoolTab) HasConnections() bool {
	return t.hasConnections
}

// Config returns the latest pool configuration.
func (t *PoolTab) Config() PoolConfig {
	return t.config
}
