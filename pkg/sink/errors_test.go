package sink_test

import (
	"context"
	"fmt"
	"time"

	"github.com/lawrencejones/teesink/pkg/sink"

	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// quotaError is a typed sink failure used to exercise checked cause
// extraction.
type quotaError struct {
	limit int
}

func (e *quotaError) Error() string {
	return fmt.Sprintf("quota exceeded: limit %d", e.limit)
}

var _ = Describe("ErrorList", func() {
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

	// makeList broadcasts a flush across one sink per cause, failing those with
	// a non-nil cause. It is the only way to obtain an ErrorList, which keeps
	// the never-empty invariant where it belongs.
	makeList := func(causes ...error) *sink.ErrorList {
		sinks := []sink.Sink{}
		for _, cause := range causes {
			fake := newFakeSink()
			if cause != nil {
				fake.Fail(cause)
			}
			sinks = append(sinks, fake)
		}

		err := sink.Broadcast(ctx, sink.NewSet(sinks...), func(ctx context.Context, s sink.Sink) error {
			return s.Flush(ctx)
		})

		list, ok := err.(*sink.ErrorList)
		Expect(ok).To(BeTrue(), "expected the designated failures to produce an aggregated error")

		return list
	}

	Describe(".Len", func() {
		It("counts only the failing sinks", func() {
			list := makeList(nil, fmt.Errorf("boom"), nil, fmt.Errorf("bang"))
			Expect(list.Len()).To(Equal(2))
		})
	})

	Describe(".Failures", func() {
		It("preserves construction positions, ascending", func() {
			list := makeList(nil, fmt.Errorf("boom"), nil, fmt.Errorf("bang"))

			failures := list.Failures()
			Expect(failures[0].Index).To(Equal(1))
			Expect(failures[0].Cause()).To(MatchError("boom"))
			Expect(failures[1].Index).To(Equal(3))
			Expect(failures[1].Cause()).To(MatchError("bang"))
		})
	})

	Describe(".At", func() {
		It("returns the indexed failure at the given position", func() {
			list := makeList(fmt.Errorf("boom"))

			failure, err := list.At(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(failure.Index).To(Equal(0))
		})

		It("rejects positions outside the list", func() {
			list := makeList(fmt.Errorf("boom"))

			for _, position := range []int{-1, 1, 10} {
				_, err := list.At(position)
				Expect(errors.Is(err, sink.ErrIndexOutOfRange)).To(BeTrue(),
					"position %d should be out of range for a single failure", position)
			}
		})
	})

	Describe(".CauseAt", func() {
		It("returns the underlying cause untouched", func() {
			boom := fmt.Errorf("boom")
			list := makeList(boom)

			cause, err := list.CauseAt(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(cause).To(BeIdenticalTo(boom))
		})
	})

	Describe(".CauseAtAs", func() {
		It("extracts a cause of the expected kind", func() {
			list := makeList(&quotaError{limit: 42})

			var quota *quotaError
			Expect(list.CauseAtAs(0, &quota)).To(Succeed())
			Expect(quota.limit).To(Equal(42))
		})

		It("rejects a cause of the wrong kind", func() {
			list := makeList(fmt.Errorf("boom"))

			var quota *quotaError
			err := list.CauseAtAs(0, &quota)
			Expect(errors.Is(err, sink.ErrTypeMismatch)).To(BeTrue())
		})

		It("rejects positions outside the list", func() {
			list := makeList(fmt.Errorf("boom"))

			var quota *quotaError
			err := list.CauseAtAs(3, &quota)
			Expect(errors.Is(err, sink.ErrIndexOutOfRange)).To(BeTrue())
		})
	})

	Describe(".Error", func() {
		It("names the failing position for a single failure", func() {
			list := makeList(nil, fmt.Errorf("disk full"))
			Expect(list.Error()).To(Equal("sink 1: disk full"))
		})

		It("summarises multiple failures", func() {
			list := makeList(fmt.Errorf("boom"), fmt.Errorf("bang"))
			Expect(list.Error()).To(Equal("2 sinks failed: sink 0: boom; sink 1: bang"))
		})
	})

	It("supports errors.Is through each indexed failure", func() {
		boom := fmt.Errorf("boom")
		list := makeList(boom)

		failure, _ := list.At(0)
		Expect(errors.Is(failure, boom)).To(BeTrue())
	})
})
