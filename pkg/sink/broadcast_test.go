package sink_test

import (
	"context"
	"fmt"
	"time"

	"github.com/lawrencejones/teesink/pkg/sink"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Broadcast", func() {
	var (
		ctx    context.Context
		cancel func()
	)

	BeforeEach(func() {
		ctx, cancel = context.WithTimeout(context.Background(), time.Second)
	})

	AfterEach(func() {
		cancel()
	})

	It("visits every sink strictly in order", func() {
		a, b, c := newFakeSink(), newFakeSink(), newFakeSink()
		set := sink.NewSet(a, b, c)

		visits := []sink.Sink{}
		err := sink.Broadcast(ctx, set, func(ctx context.Context, s sink.Sink) error {
			visits = append(visits, s)
			return nil
		})

		Expect(err).To(BeNil())
		Expect(visits).To(HaveLen(3))
		Expect(visits[0]).To(BeIdenticalTo(a))
		Expect(visits[1]).To(BeIdenticalTo(b))
		Expect(visits[2]).To(BeIdenticalTo(c))
	})

	It("returns nil rather than an empty list when every sink succeeds", func() {
		set := sink.NewSet(newFakeSink(), newFakeSink())

		err := sink.Broadcast(ctx, set, func(ctx context.Context, s sink.Sink) error {
			return nil
		})

		Expect(err).To(BeNil(), "a clean pass must not allocate an aggregated error")
	})

	It("records one indexed failure per failing sink, in set order", func() {
		set := sink.NewSet(newFakeSink(), newFakeSink(), newFakeSink())

		visited := 0
		err := sink.Broadcast(ctx, set, func(ctx context.Context, s sink.Sink) error {
			visited++
			return fmt.Errorf("failure %d", visited)
		})

		Expect(visited).To(Equal(3), "failures must never stop the pass")

		list := err.(*sink.ErrorList)
		Expect(list.Len()).To(Equal(3))
		for idx, failure := range list.Failures() {
			Expect(failure.Index).To(Equal(idx))
			Expect(failure.Cause()).To(MatchError(fmt.Sprintf("failure %d", idx+1)))
		}
	})

	It("broadcasts to an empty set without error", func() {
		err := sink.Broadcast(ctx, sink.NewSet(), func(ctx context.Context, s sink.Sink) error {
			return fmt.Errorf("never invoked")
		})

		Expect(err).To(BeNil())
	})
})
