package vt

import (
	"math/rand/v2"
	"reflect"
	"testing"
)

const chunkCorpus = "plain \xe4\xb8\xad\xe6\x96\x87 \xf0\x9f\x98\x80 text\r\n" +
	"\x1b[1;31mred\x1b[0m \x1b[38;2;10;20;30mrgb\x1b[38:5:200m\r\n" +
	"\x1b]0;title \xc3\xa9 \xe2\x80\x9cq\xe2\x80\x9d\x07\x1b]7;file:///home/user\x1b\\" +
	"\x1b[?1049h\x1b[2J\x1b[10;5Hmid\x1b[?1049l" +
	"\x1bP1$r0m\x1b\\\x1b(0qqq\x1b(B\x1b[5 q" +
	"bad\xff\xc3(utf\xed\xa0\x80\a\x1b[3@\x1b#8end"

func collect(chunks [][]byte) []Action {
	var r recorder
	p := NewParser(r.handle)
	for _, c := range chunks {
		p.Advance(c)
	}
	return r.actions
}

// TestParserChunkInvariance tests that splitting the input never changes output
func TestParserChunkInvariance(t *testing.T) {
	data := []byte(chunkCorpus)
	want := collect([][]byte{data})

	t.Run("byte at a time", func(t *testing.T) {
		var chunks [][]byte
		for i := range data {
			chunks = append(chunks, data[i:i+1])
		}
		if got := collect(chunks); !reflect.DeepEqual(got, want) {
			t.Error("byte-at-a-time parse differs from whole parse")
		}
	})

	rng := rand.New(rand.NewPCG(1, 2))
	for iter := 0; iter < 200; iter++ {
		var chunks [][]byte
		for rest := data; len(rest) > 0; {
			n := min(1+rng.IntN(16), len(rest))
			chunks = append(chunks, rest[:n])
			rest = rest[n:]
		}
		if got := collect(chunks); !reflect.DeepEqual(got, want) {
			t.Fatalf("iteration %d: chunked parse differs from whole parse", iter)
		}
	}
}

func BenchmarkParserAdvance(b *testing.B) {
	data := []byte(chunkCorpus)
	p := NewParser(func(Action) {})
	b.SetBytes(int64(len(data)))
	for b.Loop() {
		p.Advance(data)
	}
}
