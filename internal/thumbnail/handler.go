package thumbnail

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
)

// Handle is the Lambda entry point. It processes the first record of the
// S3 notification and, on success, returns the payload exactly as received.
// Errors are returned unchanged so the runtime marks the invocation failed.
func (g *Generator) Handle(ctx context.Context, payload json.RawMessage) (json.RawMessage, error) {
	if json.Valid(payload) {
		g.logger.Info().RawJSON("event", payload).Msg("Received trigger event")
	} else {
		g.logger.Info().Str("event", string(payload)).Msg("Received trigger event")
	}
	g.logInvocation(ctx)

	event, err := ParseEvent(payload)
	if err != nil {
		g.logger.Error().Err(err).Msg("Rejected trigger event")
		return nil, err
	}
	if n := len(event.Records); n > 1 {
		g.logger.Warn().Int("records", n).Msg("Only the first record is processed")
	}

	src, err := ObjectFromEvent(event)
	if err != nil {
		g.logger.Error().Err(err).Msg("Rejected trigger event")
		return nil, err
	}

	if _, err := g.Generate(ctx, src); err != nil {
		g.logger.Error().Err(err).Str("source", src.String()).Msg("Thumbnail generation failed")
		return nil, err
	}
	return payload, nil
}

// logInvocation logs what the runtime tells us about this invocation.
func (g *Generator) logInvocation(ctx context.Context) {
	evt := g.logger.Info()
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		evt = evt.
			Str("requestId", lc.AwsRequestID).
			Str("functionArn", lc.InvokedFunctionArn)
	}
	if lambdacontext.FunctionName != "" {
		evt = evt.
			Str("functionName", lambdacontext.FunctionName).
			Str("functionVersion", lambdacontext.FunctionVersion).
			Int("memoryLimitMB", lambdacontext.MemoryLimitInMB).
			Str("logStream", lambdacontext.LogStreamName)
	}
	if deadline, ok := ctx.Deadline(); ok {
		evt = evt.Time("deadline", deadline).Dur("remaining", time.Until(deadline))
	}
	evt.Msg("Invocation context")
}
