package vhier

import (
	"context"
	"fmt"
	"testing"
	"testing/fstest"
)

// chainFS builds n modules where module i instantiates module i+1.
func chainFS(n int) fstest.MapFS {
	fsys := fstest.MapFS{}
	for i := 0; i < n; i++ {
		body := ""
		if i+1 < n {
			body = fmt.Sprintf("  mod%d u_next(clk, q);\n", i+1)
		}
		src := fmt.Sprintf("module mod%d(clk, q);\n%sendmodule\n", i, body)
		fsys[fmt.Sprintf("mod%d.v", i)] = &fstest.MapFile{Data: []byte(src)}
	}
	return fsys
}

func BenchmarkLoadChain(b *testing.B) {
	src := FS("bench", chainFS(64))
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, err := Load(ctx, src)
		if err != nil {
			b.Fatalf("Load failed: %v", err)
		}
		_ = h
	}
}

func BenchmarkLoadWideFanout(b *testing.B) {
	// One top module instantiating many distinct leaves.
	fsys := fstest.MapFS{}
	top := "module top(clk);\n"
	for i := 0; i < 128; i++ {
		fsys[fmt.Sprintf("leaf%d.v", i)] = &fstest.MapFile{
			Data: []byte(fmt.Sprintf("module leaf%d(clk);\nendmodule\n", i)),
		}
		top += fmt.Sprintf("  leaf%d u%d(clk);\n", i, i)
	}
	top += "endmodule\n"
	fsys["top.v"] = &fstest.MapFile{Data: []byte(top)}

	src := FS("bench", fsys)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h, err := Load(ctx, src)
		if err != nil {
			b.Fatalf("Load failed: %v", err)
		}
		_ = h
	}
}
