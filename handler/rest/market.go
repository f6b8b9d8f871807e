package rest

import (
	"net/http"

	"coursemarket/core"
	"coursemarket/handler/render"

	"github.com/go-chi/chi"
	"github.com/spf13/cast"
)

func allCoursesHandler(courseStore core.ICourseStore, courseService core.ICourseService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		courses, err := courseStore.All(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		if cast.ToBool(r.URL.Query().Get("active")) {
			actives := courses[:0]
			for _, course := range courses {
				if course.IsActive {
					actives = append(actives, course)
				}
			}
			courses = actives
		}

		count, err := courseService.CourseCount(ctx)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, render.H{
			"course_count": count,
			"courses":      courses,
		})
	}
}

func courseHandler(courseService core.ICourseService, enrollmentStore core.IEnrollmentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		id := cast.ToUint64(chi.URLParam(r, "id"))
		course, err := courseService.GetCourse(ctx, id)
		if err != nil {
			render.NotFoundRequest(w, err)
			return
		}

		learners, err := enrollmentStore.CountByCourse(ctx, course.CourseID)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, render.H{
			"course":   course,
			"learners": learners,
		})
	}
}

func learningsHandler(enrollmentStore core.IEnrollmentStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user := chi.URLParam(r, "user")
		enrollments, err := enrollmentStore.FindByUser(ctx, user)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, render.H{"enrollments": enrollments})
	}
}

func hasCourseHandler(marketService core.IMarketService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		user := chi.URLParam(r, "user")
		courseID := chi.URLParam(r, "course")

		has, err := marketService.HasCourse(ctx, user, courseID)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, render.H{"has_course": has})
	}
}

func certificatesHandler(certificates core.ICertificateRegistry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		owner := chi.URLParam(r, "user")
		count, err := certificates.BalanceOf(ctx, owner)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		tokens := make([]render.H, 0, count)
		for i := 0; i < int(count); i++ {
			tokenID, err := certificates.TokenOfOwnerByIndex(ctx, owner, i)
			if err != nil {
				render.BadRequest(w, err)
				return
			}

			uri, err := certificates.TokenURI(ctx, tokenID)
			if err != nil {
				render.BadRequest(w, err)
				return
			}

			tokens = append(tokens, render.H{
				"token_id":  tokenID,
				"token_uri": uri,
			})
		}

		render.JSON(w, render.H{"certificates": tokens})
	}
}

func eventsHandler(eventStore core.IEventStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		offset := cast.ToUint64(r.URL.Query().Get("offset"))
		limit := cast.ToInt(r.URL.Query().Get("limit"))
		if limit <= 0 || limit > 500 {
			limit = 100
		}

		events, err := eventStore.List(ctx, offset, limit)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, render.H{"events": events})
	}
}
