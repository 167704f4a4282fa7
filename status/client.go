package status

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// Publisher is the write side of the status registry. The etcd Client
// implements it; tests substitute an in-memory fake.
type Publisher interface {
	// Publish writes or updates a run's status record.
	Publish(ctx context.Context, info RunInfo) error

	// Remove deletes a run's status record.
	Remove(ctx context.Context, runID string) error
}

// Client stores run status in etcd under leased keys.
//
// Each run gets its own lease, renewed every TTL/3 seconds by a background
// goroutine, so a run whose process dies is removed from the registry when
// its lease expires.
//
// Thread-safety: all methods are safe for concurrent use.
type Client struct {
	client    *clientv3.Client
	namespace string
	ttl       int

	mu         sync.Mutex
	leases     map[string]clientv3.LeaseID
	cancelFns  map[string]context.CancelFunc
	wg         sync.WaitGroup
	closed     bool
	closedChan chan struct{}
}

// NewClient connects to the etcd cluster and verifies connectivity.
//
// The client must be closed with Close when no longer needed to stop the
// background keepalive goroutines.
func NewClient(cfg Config) (*Client, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("status registry endpoints cannot be empty")
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "globepilot"
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: 5 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create etcd client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := cli.Get(ctx, "health-check"); err != nil && err != context.DeadlineExceeded {
		cli.Close()
		return nil, fmt.Errorf("etcd health check failed: %w", err)
	}

	return &Client{
		client:     cli,
		namespace:  namespace,
		ttl:        ttl,
		leases:     make(map[string]clientv3.LeaseID),
		cancelFns:  make(map[string]context.CancelFunc),
		closedChan: make(chan struct{}),
	}, nil
}

// Publish writes or updates the status record for a run.
//
// The first publish for a run creates a lease and starts its keepalive
// goroutine; later publishes for the same run reuse the lease.
func (c *Client) Publish(ctx context.Context, info RunInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("status client is closed")
	}

	leaseID, exists := c.leases[info.RunID]
	if !exists {
		leaseResp, err := c.client.Grant(ctx, int64(c.ttl))
		if err != nil {
			return fmt.Errorf("failed to create lease: %w", err)
		}
		leaseID = leaseResp.ID
		c.leases[info.RunID] = leaseID

		keepaliveCtx, cancel := context.WithCancel(context.Background())
		c.cancelFns[info.RunID] = cancel
		c.wg.Add(1)
		go c.keepalive(keepaliveCtx, leaseID, info.RunID)
	}

	info.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal run info: %w", err)
	}

	if _, err := c.client.Put(ctx, c.buildKey(info.RunID), string(data), clientv3.WithLease(leaseID)); err != nil {
		return fmt.Errorf("failed to publish run status: %w", err)
	}
	return nil
}

// Remove deletes a run's status record and revokes its lease. Removing a run
// that was never published is a no-op.
func (c *Client) Remove(ctx context.Context, runID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return fmt.Errorf("status client is closed")
	}

	if cancelFn, exists := c.cancelFns[runID]; exists {
		cancelFn()
		delete(c.cancelFns, runID)
	}

	leaseID, exists := c.leases[runID]
	if !exists {
		return nil
	}

	if _, err := c.client.Revoke(ctx, leaseID); err != nil {
		return fmt.Errorf("failed to revoke lease: %w", err)
	}
	delete(c.leases, runID)
	return nil
}

// Get fetches the status record for a run. The second return value is false
// when the run is not in the registry.
func (c *Client) Get(ctx context.Context, runID string) (RunInfo, bool, error) {
	resp, err := c.client.Get(ctx, c.buildKey(runID))
	if err != nil {
		return RunInfo{}, false, fmt.Errorf("failed to get run status: %w", err)
	}
	if len(resp.Kvs) == 0 {
		return RunInfo{}, false, nil
	}

	var info RunInfo
	if err := json.Unmarshal(resp.Kvs[0].Value, &info); err != nil {
		return RunInfo{}, false, fmt.Errorf("failed to unmarshal run status: %w", err)
	}
	return info, true, nil
}

// List returns all runs currently in the registry, in arbitrary order.
func (c *Client) List(ctx context.Context) ([]RunInfo, error) {
	prefix := fmt.Sprintf("/%s/runs/", c.namespace)
	resp, err := c.client.Get(ctx, prefix, clientv3.WithPrefix())
	if err != nil {
		return nil, fmt.Errorf("failed to list run statuses: %w", err)
	}

	runs := make([]RunInfo, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		var info RunInfo
		if err := json.Unmarshal(kv.Value, &info); err != nil {
			// Skip invalid entries
			continue
		}
		runs = append(runs, info)
	}
	return runs, nil
}

// Watch returns a channel that receives a run's status record every time it
// changes. The current record, if any, is sent immediately. The channel is
// closed when the context is canceled or the client is closed.
func (c *Client) Watch(ctx context.Context, runID string) (<-chan RunInfo, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, fmt.Errorf("status client is closed")
	}
	c.wg.Add(1)
	c.mu.Unlock()

	ch := make(chan RunInfo, 1)

	if info, found, err := c.Get(ctx, runID); err == nil && found {
		ch <- info
	}

	watchChan := c.client.Watch(ctx, c.buildKey(runID))

	go func() {
		defer c.wg.Done()
		defer close(ch)

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.closedChan:
				return
			case watchResp, ok := <-watchChan:
				if !ok || watchResp.Err() != nil {
					return
				}
				for _, ev := range watchResp.Events {
					if ev.Type != clientv3.EventTypePut {
						continue
					}
					var info RunInfo
					if err := json.Unmarshal(ev.Kv.Value, &info); err != nil {
						continue
					}
					select {
					case ch <- info:
					case <-ctx.Done():
						return
					case <-c.closedChan:
						return
					}
				}
			}
		}
	}()

	return ch, nil
}

// Close releases all resources and stops background goroutines.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true

	for _, cancel := range c.cancelFns {
		cancel()
	}
	c.cancelFns = make(map[string]context.CancelFunc)

	close(c.closedChan)
	c.mu.Unlock()

	c.wg.Wait()
	return c.client.Close()
}

// keepalive renews a run's lease every TTL/3 seconds until stopped.
func (c *Client) keepalive(ctx context.Context, leaseID clientv3.LeaseID, runID string) {
	defer c.wg.Done()

	interval := time.Duration(c.ttl) * time.Second / 3
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.closedChan:
			return
		case <-ticker.C:
			if _, err := c.client.KeepAliveOnce(context.Background(), leaseID); err != nil {
				// Lease is invalid, stop renewing
				c.mu.Lock()
				delete(c.leases, runID)
				delete(c.cancelFns, runID)
				c.mu.Unlock()
				return
			}
		}
	}
}

// buildKey constructs the etcd key for a run.
//
// Format: /namespace/runs/run-id
func (c *Client) buildKey(runID string) string {
	return fmt.Sprintf("/%s/runs/%s", c.namespace, runID)
}
