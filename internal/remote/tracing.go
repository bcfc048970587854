package remote

import "go.opentelemetry.io/otel"

var tracer = otel.GetTracerProvider().Tracer("github.com/IBM-MIL/IBM-Ready-App-for-Travel/internal/remote")
