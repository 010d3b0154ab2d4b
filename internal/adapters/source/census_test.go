package source_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/okian/rentscore/internal/adapters/source"
	. "github.com/smartystreets/goconvey/convey"
)

func fastOpts(base string) []source.Option {
	return []source.Option{
		source.WithBaseURL(base),
		source.WithRate(0),
		source.WithRetryPolicy(source.RetryPolicy{MaxRetries: 2}),
	}
}

func TestCensusClient(t *testing.T) {
	Convey("Given a census API stub", t, func() {
		var lastQuery atomic.Value
		var lastPath atomic.Value
		body := `[["NAME","B01003_001E","B25003_002E","B25003_003E","B19013_001E","zip code tabulation area"],
		          ["ZCTA5 78704","25000","10000","15000","72000","78704"]]`
		status := http.StatusOK

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lastPath.Store(r.URL.Path)
			lastQuery.Store(r.URL.Query())
			w.WriteHeader(status)
			_, _ = w.Write([]byte(body))
		}))
		defer srv.Close()

		Convey("When the region has data", func() {
			c := source.NewCensusClient(append(fastOpts(srv.URL), source.WithAPIKey("k"), source.WithYear(2021))...)
			rec, err := c.Demographics(context.Background(), "78704")

			Convey("Then the ACS row should be mapped by header name", func() {
				So(err, ShouldBeNil)
				So(rec.RegionCode, ShouldEqual, "78704")
				So(rec.Name, ShouldEqual, "ZCTA5 78704")
				So(rec.TotalPopulation, ShouldEqual, 25000)
				So(rec.OwnerOccupied, ShouldEqual, 10000)
				So(rec.RenterOccupied, ShouldEqual, 15000)
				So(rec.MedianIncome, ShouldEqual, 72000.0)
			})

			Convey("Then the request should target the ACS 5-year dataset", func() {
				So(lastPath.Load(), ShouldEqual, "/2021/acs/acs5")
				q := lastQuery.Load().(url.Values)
				So(q["get"][0], ShouldEqual, "NAME,B01003_001E,B25003_002E,B25003_003E,B19013_001E")
				So(q["for"][0], ShouldEqual, "zip code tabulation area:78704")
				So(q["key"][0], ShouldEqual, "k")
				So(c.Name(), ShouldEqual, source.NameCensus)
			})
		})

		Convey("When cells hold annotation sentinels or nulls", func() {
			body = `[["NAME","B01003_001E","B25003_002E","B25003_003E","B19013_001E"],
			         ["ZCTA5 00001","1200",null,"-","-666666666"]]`
			rec, err := source.NewCensusClient(fastOpts(srv.URL)...).Demographics(context.Background(), "00001")

			Convey("Then they should read as zero", func() {
				So(err, ShouldBeNil)
				So(rec.TotalPopulation, ShouldEqual, 1200)
				So(rec.OwnerOccupied, ShouldEqual, 0)
				So(rec.RenterOccupied, ShouldEqual, 0)
				So(rec.MedianIncome, ShouldEqual, 0.0)
			})
		})

		Convey("When cells hold values that are not finite counts", func() {
			body = `[["NAME","B01003_001E","B25003_002E","B25003_003E","B19013_001E"],
			         ["ZCTA5 00002","NaN","1e30","+Inf",1e300]]`
			rec, err := source.NewCensusClient(fastOpts(srv.URL)...).Demographics(context.Background(), "00002")

			Convey("Then they should read as zero instead of overflowing", func() {
				So(err, ShouldBeNil)
				So(rec.TotalPopulation, ShouldEqual, 0)
				So(rec.OwnerOccupied, ShouldEqual, 0)
				So(rec.RenterOccupied, ShouldEqual, 0)
				So(rec.MedianIncome, ShouldEqual, 0.0)
			})
		})

		Convey("When the response only has a header row", func() {
			body = `[["NAME","B01003_001E"]]`
			_, err := source.NewCensusClient(fastOpts(srv.URL)...).Demographics(context.Background(), "99999")

			Convey("Then the region should be unavailable", func() {
				So(errors.Is(err, source.ErrUnavailable), ShouldBeTrue)
			})
		})

		Convey("When the API answers 204", func() {
			status = http.StatusNoContent
			body = ""
			_, err := source.NewCensusClient(fastOpts(srv.URL)...).Demographics(context.Background(), "99999")

			Convey("Then the region should be unavailable", func() {
				So(errors.Is(err, source.ErrUnavailable), ShouldBeTrue)
			})
		})

		Convey("When the body is not JSON", func() {
			body = "<html>error</html>"
			_, err := source.NewCensusClient(fastOpts(srv.URL)...).Demographics(context.Background(), "78704")

			Convey("Then a bad response error should be returned", func() {
				So(errors.Is(err, source.ErrBadResponse), ShouldBeTrue)
			})
		})
	})
}
