//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/eczema-insights/internal/bootstrap"
	"github.com/yanqian/eczema-insights/internal/domain/auth"
	"github.com/yanqian/eczema-insights/internal/domain/dashboard"
	"github.com/yanqian/eczema-insights/internal/domain/progress"
	"github.com/yanqian/eczema-insights/internal/domain/records"
	"github.com/yanqian/eczema-insights/internal/infra/config"
	httpiface "github.com/yanqian/eczema-insights/internal/interface/http"
	"github.com/yanqian/eczema-insights/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAuthConfig,
		provideProgressConfig,
		provideDashboardConfig,
		provideLoaderConfig,
		provideMetricsRecorder,
		provideFetchObserver,
		provideRecordSource,
		provideSnapshotCache,
		provideHealthChecks,
		records.NewLoader,
		progress.NewService,
		dashboard.NewService,
		auth.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
