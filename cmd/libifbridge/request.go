package main

import (
	"encoding/json"
	"math"
	"unicode/utf8"

	"github.com/ifbridge/ifbridge/internal/netif"
)

// maxRequestLen is the largest request buffer the boundary accepts.
const maxRequestLen = math.MaxInt32

func requestTooLarge(n uint64) bool {
	return n > maxRequestLen
}

func parseApplyRequest(data []byte) (*netif.ApplyRequest, *netif.Error) {
	if !utf8.Valid(data) {
		return nil, netif.InvalidArgumentf("request is not valid UTF-8")
	}

	var req netif.ApplyRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, netif.InvalidArgumentf("parsing apply request: %v", err)
	}
	return &req, nil
}
