// Package command feeds commands read from the intake topic to the processors.
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/muhammadchandra19/exchange/pkg/errors"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/util"
	"github.com/muhammadchandra19/exchange/services/order-management/domain/order"
	ordercommandv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order-command/v1"
	orderv1 "github.com/muhammadchandra19/exchange/services/order-management/domain/order/v1"
	"github.com/muhammadchandra19/exchange/services/order-management/internal/usecase/command"
)

// Processors are the handlers a decoded command is routed to.
type Processors struct {
	Create    order.CreateProcessor
	Accept    order.AcceptProcessor
	Execution order.ExecutionProcessor
}

// RetryConfig bounds redelivery of commands that failed with a fatal error.
type RetryConfig struct {
	MaxRetries int
	Backoff    time.Duration
}

// CommandConsumer reads command envelopes and commits each offset once the
// command reached a final outcome.
type CommandConsumer struct {
	reader     ordercommandv1.CommandReader
	processors Processors
	retry      RetryConfig
	logger     logger.Interface
}

// NewCommandConsumer creates a new CommandConsumer.
func NewCommandConsumer(
	reader ordercommandv1.CommandReader,
	processors Processors,
	retry RetryConfig,
	logger logger.Interface,
) *CommandConsumer {
	return &CommandConsumer{
		reader:     reader,
		processors: processors,
		retry:      retry,
		logger:     logger,
	}
}

// Start consumes until ctx is done.
func (c *CommandConsumer) Start(ctx context.Context) {
	c.logger.InfoContext(ctx, "starting command consumer", logger.NewField("action", "command_consumer_start"))

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.InfoContext(ctx, "context done", logger.NewField("action", "command_consumer_stop"))
				return
			}
			c.logger.ErrorContext(ctx, err, logger.NewField("action", "fetch_message"))
			continue
		}

		c.Handle(ctx, msg)
		if ctx.Err() != nil {
			// the command may be unfinished; it is redelivered after restart
			return
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.ErrorContext(ctx, err,
				logger.NewField("action", "commit_message"),
				logger.NewField("offset", msg.Offset),
			)
		}
	}
}

// Stop closes the reader.
func (c *CommandConsumer) Stop() error {
	c.logger.Info("stopping command consumer", logger.NewField("action", "command_consumer_stop"))
	return c.reader.Close()
}

// Handle processes one message. Undecodable messages and structured failures
// are final. Fatal errors are retried up to MaxRetries times.
func (c *CommandConsumer) Handle(ctx context.Context, msg kafka.Message) *command.Result {
	env, err := ordercommandv1.FromBytes(msg.Value)
	if err != nil {
		c.logger.ErrorContext(ctx, errors.TracerFromError(err),
			logger.NewField("action", "decode_envelope"),
			logger.NewField("offset", msg.Offset),
		)
		return nil
	}

	ctx = util.WithRequestID(ctx, env.CommandID)
	if env.CommandID != "" {
		ctx = util.WithCommandID(ctx, env.CommandID)
	}

	cmd, err := env.Decode()
	if err != nil {
		c.logger.ErrorContext(ctx, errors.TracerFromError(err),
			logger.NewField("action", "decode_command"),
			logger.NewField("type", env.Type),
		)
		return nil
	}

	for attempt := 0; ; attempt++ {
		res, err := c.dispatch(ctx, cmd)
		if err == nil {
			return res
		}
		if attempt >= c.retry.MaxRetries {
			c.logger.ErrorContext(ctx, err,
				logger.NewField("action", "handle_command"),
				logger.NewField("type", env.Type),
				logger.NewField("attempts", attempt+1),
			)
			return res
		}

		c.logger.WarnContext(ctx, "retrying command",
			logger.NewField("type", env.Type),
			logger.NewField("attempt", attempt+1),
			logger.NewField("error", err.Error()),
		)
		select {
		case <-ctx.Done():
			return res
		case <-time.After(c.retry.Backoff):
		}
	}
}

func (c *CommandConsumer) dispatch(ctx context.Context, cmd any) (*command.Result, error) {
	switch cmd := cmd.(type) {
	case *orderv1.CreateOrderCmd:
		return c.processors.Create.Process(ctx, cmd)
	case *orderv1.AcceptOrderCmd:
		return c.processors.Accept.Process(ctx, cmd)
	case *orderv1.ExecutionCmd:
		return c.processors.Execution.Process(ctx, cmd)
	default:
		return nil, fmt.Errorf("no processor for %T", cmd)
	}
}
