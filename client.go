package rediskit

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/rediskit/codec"
)

const (
	defaultAddr        = "localhost:6379"
	defaultDialTimeout = 5 * time.Second
	defaultIOTimeout   = 10 * time.Second
	defaultHealthCheck = 60 * time.Second
)

// Client owns a store connection and hands out command sets bound to it.
// It is safe for concurrent use; command sets share the connection pool.
type Client struct {
	rdb       redis.UniversalClient
	ownsRDB   bool
	addr      string
	cmdOpts   CommandOptions
	log       Logger
	hooks     Hooks
	pingLimit time.Duration

	ticker    *time.Ticker
	stopCh    chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func newClient(ctx context.Context, opts Options) (*Client, error) {
	c := &Client{
		log:   coalesce[Logger](opts.Logger, NopLogger{}),
		hooks: coalesce[Hooks](opts.Hooks, NopHooks{}),
	}

	cd, err := codec.New(codec.Options{
		Format:        opts.Format,
		Deterministic: opts.Deterministic,
		MaxDecode:     opts.MaxDecode,
		OnFallback: func(reason string, err error) {
			c.log.Warn("decode fallback to text", Fields{"reason": reason, "err": err})
			c.hooks.DecodeFallback(reason, err)
		},
	})
	if err != nil {
		return nil, err
	}
	c.cmdOpts = CommandOptions{Codec: cd, Logger: c.log, Hooks: c.hooks}

	// defaults
	c.addr = coalesce(opts.Addr, defaultAddr)
	dial := coalesce(opts.DialTimeout, defaultDialTimeout)
	read := coalesce(opts.ReadTimeout, defaultIOTimeout)
	write := coalesce(opts.WriteTimeout, read)
	interval := coalesce(opts.HealthCheckInterval, defaultHealthCheck)
	c.pingLimit = dial

	if opts.Client != nil {
		c.rdb = opts.Client
		c.ownsRDB = opts.CloseClient
	} else {
		c.rdb = redis.NewClient(&redis.Options{
			Addr:         c.addr,
			Username:     opts.Username,
			Password:     opts.Password,
			DB:           opts.DB,
			DialTimeout:  dial,
			ReadTimeout:  read,
			WriteTimeout: write,
		})
		c.ownsRDB = true
	}

	if err := c.rdb.Ping(ctx).Err(); err != nil {
		c.log.Error("connect failed", Fields{"addr": c.addr, "err": err})
		if c.ownsRDB {
			_ = c.rdb.Close()
		}
		return nil, &ConnectError{Addr: c.addr, Err: err}
	}
	c.log.Debug("connected", Fields{"addr": c.addr, "db": opts.DB})

	if interval > 0 {
		c.startHealthCheck(interval)
	}
	return c, nil
}

func (c *Client) startHealthCheck(interval time.Duration) {
	c.ticker = time.NewTicker(interval)
	c.stopCh = make(chan struct{})
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		for {
			select {
			case <-c.ticker.C:
				c.healthCheck()
			case <-c.stopCh:
				return
			}
		}
	}()
}

func (c *Client) healthCheck() {
	ctx, cancel := context.WithTimeout(context.Background(), c.pingLimit)
	defer cancel()
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		c.log.Warn("health check failed", Fields{"addr": c.addr, "err": err})
		c.hooks.HealthCheckFailed(err)
	}
}

// Ping checks the connection once.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Redis exposes the underlying handle for commands outside the four shapes.
func (c *Client) Redis() redis.UniversalClient { return c.rdb }

// Codec is the codec shared by every command set of this client.
func (c *Client) Codec() *codec.Codec { return c.cmdOpts.Codec }

// Use returns a command set for shape. It panics on an out-of-range Shape.
func (c *Client) Use(shape Shape) CommandSet {
	return Select(c.rdb, shape, c.cmdOpts)
}

// UseTag is Use for "string", "list", "set" or "hash".
func (c *Client) UseTag(tag string) (CommandSet, error) {
	return SelectTag(c.rdb, tag, c.cmdOpts)
}

func (c *Client) Strings() *String { return NewString(c.rdb, c.cmdOpts) }
func (c *Client) Lists() *List     { return NewList(c.rdb, c.cmdOpts) }
func (c *Client) Sets() *Set       { return NewSet(c.rdb, c.cmdOpts) }
func (c *Client) Hashes() *Hash    { return NewHash(c.rdb, c.cmdOpts) }

// Close stops the health check and closes the connection if the client owns
// it. It is idempotent.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		if c.stopCh != nil {
			close(c.stopCh)
			c.ticker.Stop()
			c.wg.Wait()
		}
		if c.ownsRDB {
			if cerr := c.rdb.Close(); cerr != nil && !errors.Is(cerr, redis.ErrClosed) {
				err = cerr
			}
		}
	})
	return err
}
