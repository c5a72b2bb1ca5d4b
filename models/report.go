package models

import "time"

// ReportModel is the renderable form of a run: one row per work item
// plus run metadata. Built by the report package and handed to a sink.
type ReportModel struct {
	Title          string
	SourceBase     string
	TargetBase     string
	SourceDegraded bool
	TargetDegraded bool
	GeneratedAt    time.Time
	OutputDir      string
	Rows           []*PageResult
	Pages          int
	Failures       int
}

// RunResult summarises a completed run for the final console report.
type RunResult struct {
	StartTime      time.Time
	EndTime        time.Time
	Pages          int
	Captures       int
	Failures       int
	Retries        int
	FailuresByKind map[string]int
}
