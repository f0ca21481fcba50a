package usecase

import (
	"context"
	"math/big"
	"sync"
)

type fakeProvider struct {
	mu    sync.Mutex
	price *big.Int
	err   error
	calls int
}

func (f *fakeProvider) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return new(big.Int).Set(f.price), nil
}

func (f *fakeProvider) set(wei int64) {
	f.mu.Lock()
	f.price = big.NewInt(wei)
	f.mu.Unlock()
}

type memoryRepo struct {
	mu         sync.Mutex
	thresholds []*big.Int
	err        error
}

func (r *memoryRepo) List(ctx context.Context) ([]*big.Int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return append([]*big.Int(nil), r.thresholds...), nil
}

func (r *memoryRepo) Append(ctx context.Context, wei *big.Int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.thresholds = append(r.thresholds, wei)
	return nil
}

func (r *memoryRepo) Seed(ctx context.Context, wei *big.Int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return false, r.err
	}
	if len(r.thresholds) > 0 {
		return false, nil
	}
	r.thresholds = []*big.Int{wei}
	return true, nil
}

type sentNotification struct {
	chatID int64
	text   string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (n *fakeNotifier) Notify(ctx context.Context, chatID int64, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, sentNotification{chatID: chatID, text: text})
	return nil
}

func (n *fakeNotifier) messages() []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentNotification(nil), n.sent...)
}
