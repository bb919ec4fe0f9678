package main

import (
	"context"
	"fmt"
	"time"

	"artclub/internal/domain/models"
	"artclub/internal/transport/http/dto"
	"artclub/internal/view"

	"github.com/spf13/cobra"
)

func listFlags(cmd *cobra.Command, p *view.ListParams) {
	f := cmd.Flags()
	f.StringVarP(&p.Search, "search", "s", "", "case-insensitive search")
	f.StringVar(&p.Sort, "sort", "", "sort order")
	f.IntVar(&p.Page, "page", 1, "page number, from 1")
	f.IntVar(&p.PerPage, "per-page", 20, "page size, 0 shows everything")
}

// idAction команда вида "<verb> ID", которой нужна сессия
func idAction(get envFunc, use, short, done string, fn func(ctx context.Context, e *env, id int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " ID",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			e := get()
			ctx, err := e.restore(cmd.Context())
			if err != nil {
				return err
			}

			if err := fn(ctx, e, id); err != nil {
				return err
			}

			fmt.Fprintf(e.out, "%s %s %d\n", green("ok"), done, id)
			return nil
		},
	}
}

func artworksCmd(get envFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "artworks",
		Aliases: []string{"art"},
		Short:   "Browse and moderate artworks",
	}

	var p view.ArtworkParams
	list := &cobra.Command{
		Use:   "list",
		Short: "List artworks",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := get()
			ctx, err := e.restore(cmd.Context())
			if err != nil {
				return err
			}

			items, err := e.artworks.FetchAll(ctx, dto.ArtworkFilters{Category: p.Category, Status: p.Status, ArtistID: p.ArtistID})
			if err != nil {
				return err
			}

			page := view.Apply(items, view.ArtworkQuery(p))

			tw := table(e.out, "ID", "TITLE", "CATEGORY", "ARTIST", "STATUS", "LIKES")
			for _, a := range page.Items {
				row(tw, a.ID, a.Title, a.Category, view.ArtistName(a, e.store.Users.Items()), approval(a.ApprovalStatus), a.LikesCount)
			}
			tw.Flush()
			footer(e.out, page)
			return nil
		},
	}
	listFlags(list, &p.ListParams)
	list.Flags().StringVar((*string)(&p.Category), "category", "", "sketch, canvas, wallart, digital or photography")
	list.Flags().StringVar((*string)(&p.Status), "status", "", "pending, approved or rejected")
	list.Flags().Int64Var(&p.ArtistID, "artist", 0, "artist user id")

	var feedback string
	reject := idAction(get, "reject", "Reject a pending artwork", "rejected", func(ctx context.Context, e *env, id int64) error {
		return e.artworks.Reject(ctx, id, feedback)
	})
	reject.Flags().StringVar(&feedback, "feedback", "", "note for the artist")

	cmd.AddCommand(
		list,
		idAction(get, "approve", "Approve a pending artwork", "approved", func(ctx context.Context, e *env, id int64) error {
			return e.artworks.Approve(ctx, id)
		}),
		reject,
		idAction(get, "like", "Like an artwork", "liked", func(ctx context.Context, e *env, id int64) error {
			return e.artworks.Like(ctx, id)
		}),
		idAction(get, "unlike", "Remove a like", "unliked", func(ctx context.Context, e *env, id int64) error {
			return e.artworks.Unlike(ctx, id)
		}),
		idAction(get, "delete", "Delete an artwork", "deleted", func(ctx context.Context, e *env, id int64) error {
			return e.artworks.Remove(ctx, id)
		}),
	)

	return cmd
}

func eventsCmd(get envFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Club events",
	}

	var p view.EventParams
	list := &cobra.Command{
		Use:   "list",
		Short: "List events",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := get()
			ctx, err := e.restore(cmd.Context())
			if err != nil {
				return err
			}

			items, err := e.events.FetchAll(ctx)
			if err != nil {
				return err
			}

			me := currentUserID(e)
			page := view.Apply(items, view.EventQuery(p, time.Now()))

			tw := table(e.out, "ID", "DATE", "TITLE", "LOCATION", "ATTENDEES", "GOING", "DONE")
			for _, ev := range page.Items {
				row(tw, ev.ID, date(ev.Date), ev.Title, ev.Location, len(ev.Attendees), yesNo(ev.HasAttendee(me)), yesNo(ev.IsCompleted))
			}
			tw.Flush()
			footer(e.out, page)
			return nil
		},
	}
	listFlags(list, &p.ListParams)
	list.Flags().StringVar(&p.Scope, "scope", "", "upcoming or completed")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Event statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := get()
			ctx, err := e.restore(cmd.Context())
			if err != nil {
				return err
			}

			s, err := e.events.Stats(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(e.out, "total: %d\ncompleted: %d\nupcoming: %d\n", s.TotalEvents, s.CompletedEvents, s.UpcomingEvents)
			if len(s.ParticipationStats) > 0 {
				tw := table(e.out, "EVENT", "PARTICIPANTS")
				for _, ps := range s.ParticipationStats {
					row(tw, ps.EventTitle, ps.ParticipantCount)
				}
				tw.Flush()
			}
			return nil
		},
	}

	cmd.AddCommand(
		list,
		stats,
		idAction(get, "attend", "Sign up for an event", "attending", func(ctx context.Context, e *env, id int64) error {
			return setAttendance(ctx, e, id, true)
		}),
		idAction(get, "leave", "Cancel event attendance", "left", func(ctx context.Context, e *env, id int64) error {
			return setAttendance(ctx, e, id, false)
		}),
		idAction(get, "complete", "Mark an event completed", "completed", func(ctx context.Context, e *env, id int64) error {
			return e.events.Complete(ctx, id)
		}),
	)

	return cmd
}

func currentUserID(e *env) int64 {
	if u := e.auth.Session().User; u != nil {
		return u.PK
	}
	return 0
}

func setAttendance(ctx context.Context, e *env, id int64, attend bool) error {
	if _, err := e.events.FetchAll(ctx); err != nil {
		return err
	}

	ev, ok := e.store.Events.Get(id)
	if !ok {
		return fmt.Errorf("event %d not found", id)
	}

	me := currentUserID(e)
	attendees := make([]int64, 0, len(ev.Attendees)+1)
	for _, uid := range ev.Attendees {
		if uid != me {
			attendees = append(attendees, uid)
		}
	}
	if attend {
		attendees = append(attendees, me)
	}

	return e.events.SetAttendees(ctx, id, attendees)
}

func projectsCmd(get envFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Collaborative projects",
	}

	var p view.ProjectParams
	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := get()
			ctx, err := e.restore(cmd.Context())
			if err != nil {
				return err
			}

			items, err := e.projects.FetchAll(ctx)
			if err != nil {
				return err
			}

			page := view.Apply(items, view.ProjectQuery(p))

			tw := table(e.out, "ID", "TITLE", "START", "END", "MEMBERS", "UPDATES", "DONE")
			for _, pr := range page.Items {
				row(tw, pr.ID, pr.Title, date(pr.StartDate), date(pr.EndDate), len(pr.Members), len(pr.Updates), yesNo(pr.IsCompleted))
			}
			tw.Flush()
			footer(e.out, page)
			return nil
		},
	}
	listFlags(list, &p.ListParams)
	list.Flags().StringVar(&p.Completed, "completed", "", "true or false")
	list.Flags().Int64Var(&p.MemberID, "member", 0, "only projects of this user")

	var note string
	update := idAction(get, "update", "Post a progress update", "updated", func(ctx context.Context, e *env, id int64) error {
		_, err := e.projects.AddUpdate(ctx, id, dto.ProjectUpdateRequest{Description: note})
		return err
	})
	update.Flags().StringVarP(&note, "message", "m", "", "update text")

	cmd.AddCommand(
		list,
		update,
		idAction(get, "complete", "Mark a project completed", "completed", func(ctx context.Context, e *env, id int64) error {
			return e.projects.Complete(ctx, id)
		}),
	)

	return cmd
}

func usersCmd(get envFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage club members (admin)",
	}

	var p view.UserParams
	list := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := get()
			ctx, err := e.restore(cmd.Context())
			if err != nil {
				return err
			}

			items, err := e.users.FetchAll(ctx)
			if err != nil {
				return err
			}

			page := view.Apply(items, view.UserQuery(p))

			tw := table(e.out, "ID", "NAME", "EMAIL", "ROLE", "ACTIVE")
			for _, u := range page.Items {
				row(tw, u.PK, u.FullName(), u.Email, u.Role, yesNo(u.IsActive))
			}
			tw.Flush()
			footer(e.out, page)
			return nil
		},
	}
	listFlags(list, &p.ListParams)
	list.Flags().StringVar((*string)(&p.Role), "role", "", "admin, member or visitor")
	list.Flags().StringVar(&p.Active, "active", "", "true or false")

	var role string
	setRole := idAction(get, "role", "Change a user's role", "updated", func(ctx context.Context, e *env, id int64) error {
		return e.users.UpdateRole(ctx, id, models.Role(role))
	})
	setRole.Flags().StringVar(&role, "to", "", "admin, member or visitor")

	cmd.AddCommand(
		list,
		setRole,
		idAction(get, "activate", "Activate an account", "activated", func(ctx context.Context, e *env, id int64) error {
			return e.users.Activate(ctx, id)
		}),
		idAction(get, "deactivate", "Deactivate an account", "deactivated", func(ctx context.Context, e *env, id int64) error {
			return e.users.Deactivate(ctx, id)
		}),
	)

	return cmd
}

func notificationsCmd(get envFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"inbox"},
		Short:   "Read notifications",
	}

	var p view.NotificationParams
	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := get()
			ctx, err := e.restore(cmd.Context())
			if err != nil {
				return err
			}

			items, err := e.notifications.FetchAll(ctx)
			if err != nil {
				return err
			}

			page := view.Apply(items, view.NotificationQuery(p))

			tw := table(e.out, "ID", "TYPE", "MESSAGE", "READ")
			for _, n := range page.Items {
				row(tw, n.ID, n.NotificationType, n.Message, yesNo(n.Read))
			}
			tw.Flush()
			fmt.Fprintf(e.out, "%s unread\n", yellow(view.UnreadCount(items)))
			return nil
		},
	}
	listFlags(list, &p.ListParams)
	list.Flags().BoolVar(&p.Unread, "unread", false, "only unread")

	cmd.AddCommand(
		list,
		idAction(get, "read", "Mark a notification read", "marked read", func(ctx context.Context, e *env, id int64) error {
			return e.notifications.MarkRead(ctx, id)
		}),
	)

	return cmd
}

func analyticsCmd(get envFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "analytics",
		Short: "Club analytics (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e := get()
			ctx, err := e.restore(cmd.Context())
			if err != nil {
				return err
			}

			a, err := e.users.Analytics(ctx)
			if err != nil {
				return err
			}

			tw := table(e.out, "MONTH", "UPLOADS")
			for _, m := range a.MonthlyArtworkData {
				row(tw, m.Month, m.Count)
			}
			tw.Flush()

			fmt.Fprintln(e.out)
			tw = table(e.out, "TOP ARTIST", "UPLOADS", "LIKES")
			for _, t := range view.TopArtists(a.TopArtists, 3) {
				row(tw, t.Name, t.Uploads, t.Likes)
			}
			tw.Flush()
			return nil
		},
	}
}
