package test

import (
	"context"

	"github.com/unimart/settlement/internal/domain/model"
)

// CarrierFetcherStub serves canned raw payloads keyed by tracking number.
type CarrierFetcherStub struct {
	FetchFn  func(context.Context, model.Carrier, string) ([]byte, error)
	Payloads map[string][]byte
	Err      error
}

func (s *CarrierFetcherStub) FetchTracking(ctx context.Context, carrier model.Carrier, trackingNumber string) ([]byte, error) {
	if s.FetchFn != nil {
		return s.FetchFn(ctx, carrier, trackingNumber)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Payloads[trackingNumber], nil
}
