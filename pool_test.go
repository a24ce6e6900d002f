package qsim

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPool(t *testing.T) {
	Convey("Given a pool of workers", t, func() {
		pool := NewPool(context.Background(), 4)
		Reset(pool.Close)

		So(pool.Size(), ShouldEqual, 4)

		Convey("It should run every job before Run returns", func() {
			var count atomic.Int64
			fns := make([]func() error, 32)
			for i := range fns {
				fns[i] = func() error {
					count.Add(1)
					return nil
				}
			}

			So(pool.Run("count", fns), ShouldBeNil)
			So(count.Load(), ShouldEqual, 32)

			metrics := pool.Metrics()
			So(metrics.JobCount, ShouldEqual, 32)
			So(metrics.FailedJobs, ShouldEqual, 0)
			So(metrics.WorkerCount, ShouldEqual, 4)
		})

		Convey("It should report the first job error", func() {
			boom := errors.New("boom")
			err := pool.Run("fail", []func() error{
				func() error { return nil },
				func() error { return boom },
			})
			So(errors.Is(err, boom), ShouldBeTrue)
			So(pool.Metrics().FailedJobs, ShouldEqual, 1)
		})

		Convey("It should turn a panicking job into an error", func() {
			err := pool.Run("panic", []func() error{
				func() error { panic("bad block") },
			})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "bad block")

			Convey("And keep serving jobs afterwards", func() {
				So(pool.Run("after", []func() error{func() error { return nil }}), ShouldBeNil)
			})
		})

		Convey("It should refuse work once closed", func() {
			pool.Close()
			pool.Close()

			err := pool.Run("closed", []func() error{func() error { return nil }})
			So(errors.Is(err, ErrPoolClosed), ShouldBeTrue)
		})
	})

	Convey("Given a pool whose context is cancelled", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		pool := NewPool(ctx, 1)
		Reset(pool.Close)

		started := make(chan struct{})
		release := make(chan struct{})
		defer close(release)

		done := make(chan error, 1)
		go func() {
			done <- pool.Run("blocked", []func() error{
				func() error {
					close(started)
					<-release
					return nil
				},
			})
		}()

		<-started
		cancel()

		select {
		case err := <-done:
			So(errors.Is(err, ErrPoolClosed), ShouldBeTrue)
		case <-time.After(2 * time.Second):
			t.Fatal("Run did not return after cancellation")
		}
	})

	Convey("Given a non-positive size", t, func() {
		pool := NewPool(context.Background(), 0)
		Reset(pool.Close)
		So(pool.Size(), ShouldEqual, 1)
	})
}
