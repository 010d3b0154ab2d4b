package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/rentscore/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	Convey("Given a new InMemoryDeduper", t, func() {
		ctx := context.Background()

		Convey("When creating a deduper with default options", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("Then it should start empty", func() {
				So(d, ShouldNotBeNil)
				So(d.Size(), ShouldEqual, 0)
			})
		})

		Convey("When recording region codes", func() {
			d := dedupe.NewInMemoryDeduper()

			Convey("And the code is new", func() {
				seen := d.SeenAndRecord(ctx, "10001")

				Convey("Then it should return false and record the code", func() {
					So(seen, ShouldBeFalse)
					So(d.Size(), ShouldEqual, 1)
				})
			})

			Convey("And the code was already seen", func() {
				d.SeenAndRecord(ctx, "10001")
				seen := d.SeenAndRecord(ctx, "10001")

				Convey("Then it should return true without growing", func() {
					So(seen, ShouldBeTrue)
					So(d.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When more codes arrive than the capacity hint", func() {
			d := dedupe.NewInMemoryDeduper(dedupe.WithCapacity(2))
			const n = 1000
			for i := 0; i < n; i++ {
				So(d.SeenAndRecord(ctx, fmt.Sprintf("%05d", i)), ShouldBeFalse)
			}

			Convey("Then nothing should be forgotten", func() {
				So(d.Size(), ShouldEqual, int64(n))
				So(d.SeenAndRecord(ctx, "00000"), ShouldBeTrue)
				So(d.SeenAndRecord(ctx, "00999"), ShouldBeTrue)
				So(d.Size(), ShouldEqual, int64(n))
			})
		})
	})
}

func TestUnique(t *testing.T) {
	Convey("Given a requested list with repeats and blanks", t, func() {
		ctx := context.Background()
		requested := []string{"10001", " 90210", "", "10001", "60614", "90210 ", "   "}

		Convey("When collapsing it", func() {
			codes, duplicates := dedupe.Unique(ctx, dedupe.NewInMemoryDeduper(), requested)

			Convey("Then first occurrences should be kept in order", func() {
				So(codes, ShouldResemble, []string{"10001", "90210", "60614"})
				So(duplicates, ShouldEqual, 2)
			})
		})

		Convey("When a repeat follows a long run of distinct codes", func() {
			long := make([]string, 0, 20_001)
			for i := 0; i < 20_000; i++ {
				long = append(long, fmt.Sprintf("%05d", i))
			}
			long = append(long, "00000")
			codes, duplicates := dedupe.Unique(ctx, dedupe.NewInMemoryDeduper(dedupe.WithCapacity(len(long))), long)

			Convey("Then the first code should still count as a repeat", func() {
				So(len(codes), ShouldEqual, 20_000)
				So(duplicates, ShouldEqual, 1)
			})
		})

		Convey("When the list is empty", func() {
			codes, duplicates := dedupe.Unique(ctx, dedupe.NewInMemoryDeduper(), nil)

			Convey("Then nothing should come back", func() {
				So(codes, ShouldBeEmpty)
				So(duplicates, ShouldEqual, 0)
			})
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	Convey("Given a deduper with concurrent access", t, func() {
		d := dedupe.NewInMemoryDeduper()
		const goroutines = 10
		const perGoroutine = 100

		Convey("When goroutines record overlapping codes", func() {
			var wg sync.WaitGroup
			var mu sync.Mutex
			fresh := 0

			for i := 0; i < goroutines; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < perGoroutine; j++ {
						if !d.SeenAndRecord(context.Background(), fmt.Sprintf("%05d", j)) {
							mu.Lock()
							fresh++
							mu.Unlock()
						}
					}
				}()
			}
			wg.Wait()

			Convey("Then each code should be recorded exactly once", func() {
				So(fresh, ShouldEqual, perGoroutine)
				So(d.Size(), ShouldEqual, int64(perGoroutine))
			})
		})
	})
}
