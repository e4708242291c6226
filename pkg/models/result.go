package models

// ResultKind tells the presenter why a board looks the way it does.
type ResultKind string

const (
	ResultOK                ResultKind = "ok"
	ResultEmpty             ResultKind = "empty"
	ResultSourceUnavailable ResultKind = "source_unavailable"
)
