package logging

const (
	FieldComponent = "component"
	FieldQuery     = "query"
	FieldBackend   = "backend"
	FieldOffset    = "offset"
	FieldLimit     = "limit"
	FieldCount     = "count"
	FieldSeq       = "seq"
	FieldPosition  = "position"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldEvent     = "event"
)
