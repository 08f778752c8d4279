// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-review-prompt/pkg/common"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/propagators/b3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// SetupTelemetry installs the global tracer provider and propagators.
// Returns a shutdown function that should be called on application shutdown.
//
// Spans are exported to Zipkin when cfg.ZipkinEndpoint is set. Trace
// context propagates as B3, W3C TraceContext and W3C Baggage so a host
// can correlate its own traces with ours.
func SetupTelemetry(ctx context.Context, cfg common.TracerConfig) (func(context.Context) error, error) {
	tracerProvider, err := common.NewTracerProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer provider: %w", err)
	}

	otel.SetTracerProvider(tracerProvider)
	logrus.Infof("set tracer provider: (name: %s environment: %s id: %d)", cfg.ServiceName, cfg.Environment, cfg.ID)

	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			b3.New(),
			propagation.TraceContext{},
			propagation.Baggage{},
		),
	)
	logrus.Infof("set text map propagator")

	shutdown := func(ctx context.Context) error {
		logrus.Info("shutting down telemetry...")
		if err := tracerProvider.Shutdown(ctx); err != nil {
			return err
		}
		logrus.Info("telemetry stopped")
		return nil
	}

	return shutdown, nil
}
