package app

import (
	"context"
)

type MetricsUseCase interface {
	GetMetrics(ctx context.Context, req MetricsRequest) (*MetricsResponse, error)
	Day21Report(ctx context.Context, req ReportRequest) (*CommitmentReport, error)
}

type WeeklyScanUseCase interface {
	RunWeeklyScan(ctx context.Context, req ScanRequest) (*ScanResult, error)
}

type ViolationStatusUseCase interface {
	Status(ctx context.Context, req StatusRequest) (*ViolationStatus, error)
}

type ResolveViolationUseCase interface {
	ResolveViolation(ctx context.Context, req ResolveViolationRequest) (*ViolationView, error)
}

type TerminationChoiceUseCase interface {
	Resolve(ctx context.Context, req TerminationChoiceRequest) (*TerminationChoiceResult, error)
}
