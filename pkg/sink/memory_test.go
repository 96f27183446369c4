package sink_test

import (
	"context"
	"time"

	"github.com/lawrencejones/teesink/pkg/sink"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("MemorySink", func() {
	var (
		ctx    context.Context
		cancel func()
		memory *sink.MemorySink
	)

	BeforeEach(func() {
		ctx, cancel = context.WithTimeout(context.Background(), time.Second)
		memory = sink.NewMemorySink()
	})

	AfterEach(func() {
		cancel()
	})

	It("accumulates successive writes and appends", func() {
		Expect(memory.WriteRune(ctx, 'a')).To(Succeed())
		Expect(memory.Write(ctx, []byte("xbcy"), 1, 2)).To(Succeed())
		Expect(memory.AppendRune(ctx, 'd')).To(Succeed())
		Expect(memory.AppendString(ctx, "ef")).To(Succeed())
		Expect(memory.AppendRange(ctx, "xghy", 1, 2)).To(Succeed())

		Expect(memory.String()).To(Equal("abcdefgh"))
	})

	It("handles multi-byte runes", func() {
		Expect(memory.WriteRune(ctx, 'é')).To(Succeed())
		Expect(memory.String()).To(Equal("é"))
	})

	Describe("ranged operations", func() {
		It("rejects ranges outside the buffer", func() {
			Expect(memory.Write(ctx, []byte("abc"), 2, 2)).NotTo(Succeed())
			Expect(memory.Write(ctx, []byte("abc"), -1, 1)).NotTo(Succeed())
			Expect(memory.AppendRange(ctx, "abc", 0, 4)).NotTo(Succeed())

			Expect(memory.String()).To(BeEmpty(), "a rejected range must not partially apply")
		})

		It("rejects lengths large enough to overflow the bounds check", func() {
			Expect(memory.Write(ctx, []byte("abc"), 2, maxInt)).NotTo(Succeed())
			Expect(memory.AppendRange(ctx, "abc", 1, maxInt)).NotTo(Succeed())

			Expect(memory.String()).To(BeEmpty())
		})

		It("accepts an empty range at the end of the buffer", func() {
			Expect(memory.Write(ctx, []byte("abc"), 3, 0)).To(Succeed())
			Expect(memory.String()).To(BeEmpty())
		})
	})

	It("counts flushes and closes without enforcing lifecycle", func() {
		Expect(memory.Flush(ctx)).To(Succeed())
		Expect(memory.Close(ctx)).To(Succeed())
		Expect(memory.Close(ctx)).To(Succeed(), "repeated closes are permitted")
		Expect(memory.AppendString(ctx, "after")).To(Succeed(), "the memory sink stays writable after close")

		Expect(memory.Flushes()).To(Equal(1))
		Expect(memory.Closes()).To(Equal(2))
		Expect(memory.String()).To(Equal("after"))
	})
})
