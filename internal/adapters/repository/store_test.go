package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/standings/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func snapshot(id string, at time.Time, points int) Snapshot {
	t := model.NewTable()
	t.Set("River", model.TeamStanding{Points: points, MatchesPlayed: 1, GoalsFor: 2})
	t.Set("Boca", model.TeamStanding{MatchesPlayed: 1})
	return Snapshot{
		ID:         id,
		ComputedAt: at,
		GateMode:   "at_least",
		BonusMode:  "cumulative",
		Matches:    1,
		Table:      t,
	}
}

// storeContract runs the behavior every Store must share.
func storeContract(newStore func() Store) {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	Convey("When the store is empty", func() {
		s := newStore()
		defer s.Close()

		_, err := s.Latest(ctx)
		So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		_, err = s.Get(ctx, "missing")
		So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		n, err := s.Count(ctx)
		So(err, ShouldBeNil)
		So(n, ShouldEqual, 0)
	})

	Convey("When snapshots are saved", func() {
		s := newStore()
		defer s.Close()

		So(s.Save(ctx, snapshot("a", base, 1)), ShouldBeNil)
		So(s.Save(ctx, snapshot("b", base.Add(time.Second), 5)), ShouldBeNil)

		Convey("Then the last one is the latest", func() {
			latest, err := s.Latest(ctx)
			So(err, ShouldBeNil)
			So(latest.ID, ShouldEqual, "b")
			So(latest.ComputedAt.Equal(base.Add(time.Second)), ShouldBeTrue)
			So(latest.GateMode, ShouldEqual, "at_least")
			So(latest.Table.Teams(), ShouldResemble, []model.TeamID{"River", "Boca"})

			st, err := latest.Team("River")
			So(err, ShouldBeNil)
			So(st.Points, ShouldEqual, 5)
			_, err = latest.Team("Racing")
			So(errors.Is(err, ErrTeamNotFound), ShouldBeTrue)
		})

		Convey("Then older snapshots stay reachable by id", func() {
			old, err := s.Get(ctx, "a")
			So(err, ShouldBeNil)
			st, _ := old.Team("River")
			So(st.Points, ShouldEqual, 1)
			n, err := s.Count(ctx)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 2)
		})
	})
}

func TestMemoryStore(t *testing.T) {
	Convey("Given a memory store", t, func() {
		storeContract(func() Store { return NewMemoryStore() })

		Convey("When more snapshots than the history are saved", func() {
			ctx := context.Background()
			s := NewMemoryStore(WithHistory(2))
			base := time.Now()
			for i := 0; i < 4; i++ {
				So(s.Save(ctx, snapshot(fmt.Sprintf("s%d", i), base.Add(time.Duration(i)*time.Second), i)), ShouldBeNil)
			}

			Convey("Then only the newest are kept", func() {
				n, _ := s.Count(ctx)
				So(n, ShouldEqual, 2)
				_, err := s.Get(ctx, "s1")
				So(errors.Is(err, ErrNotFound), ShouldBeTrue)
				snap, err := s.Get(ctx, "s2")
				So(err, ShouldBeNil)
				So(snap.ID, ShouldEqual, "s2")
			})
		})

		Convey("When the caller mutates a saved table", func() {
			ctx := context.Background()
			s := NewMemoryStore()
			snap := snapshot("x", time.Now(), 3)
			So(s.Save(ctx, snap), ShouldBeNil)
			snap.Table.Set("River", model.TeamStanding{Points: 99})

			Convey("Then the stored copy is unchanged", func() {
				latest, _ := s.Latest(ctx)
				st, _ := latest.Team("River")
				So(st.Points, ShouldEqual, 3)
			})
		})
	})
}

func TestSQLStore(t *testing.T) {
	Convey("Given a sqlite-backed SQL store", t, func() {
		storeContract(func() Store {
			s, err := OpenSQL(context.Background(), "sqlite3", ":memory:")
			So(err, ShouldBeNil)
			return s
		})

		Convey("When a duplicate id is saved", func() {
			ctx := context.Background()
			s, err := OpenSQL(ctx, "sqlite3", ":memory:")
			So(err, ShouldBeNil)
			defer s.Close()
			So(s.Save(ctx, snapshot("dup", time.Now(), 1)), ShouldBeNil)
			So(s.Save(ctx, snapshot("dup", time.Now(), 2)), ShouldNotBeNil)
		})
	})

	Convey("Given an unsupported driver", t, func() {
		_, err := OpenSQL(context.Background(), "mysql", "")
		So(errors.Is(err, ErrInvalidDriver), ShouldBeTrue)
	})
}
