// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package common

import (
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/zipkin"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// TracerConfig describes the traced service.
type TracerConfig struct {
	ServiceName    string
	Environment    string
	ID             int64
	ZipkinEndpoint string
}

// NewTracerProvider builds an always-sampling tracer provider. Spans are
// batched to Zipkin when ZipkinEndpoint is set and dropped otherwise.
func NewTracerProvider(cfg TracerConfig) (*sdktrace.TracerProvider, error) {
	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("environment", cfg.Environment),
		attribute.Int64("ID", cfg.ID),
	)

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithResource(res),
	}

	if cfg.ZipkinEndpoint != "" {
		exporter, err := zipkin.New(cfg.ZipkinEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to create zipkin exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	return sdktrace.NewTracerProvider(opts...), nil
}
