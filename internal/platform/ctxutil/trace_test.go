package ctxutil

import (
	"context"
	"testing"
)

func TestContextValues(t *testing.T) {
	ctx := context.Background()
	if GetTraceData(ctx) != nil || GetPrincipal(ctx) != nil {
		t.Fatalf("empty context should carry no values")
	}
	ctx = WithTraceData(ctx, &TraceData{TraceID: "t", RequestID: "r"})
	ctx = WithPrincipal(ctx, &Principal{Subject: "alice"})
	if td := GetTraceData(ctx); td == nil || td.TraceID != "t" || td.RequestID != "r" {
		t.Fatalf("trace data: %+v", td)
	}
	if p := GetPrincipal(ctx); p == nil || p.Subject != "alice" {
		t.Fatalf("principal: %+v", p)
	}
}
