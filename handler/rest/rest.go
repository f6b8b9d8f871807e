package rest

import (
	"errors"
	"net/http"

	"coursemarket/core"
	"coursemarket/handler/render"

	"github.com/go-chi/chi"
)

// Handle handle rest api request
func Handle(
	courseService core.ICourseService,
	courseStore core.ICourseStore,
	enrollmentStore core.IEnrollmentStore,
	eventStore core.IEventStore,
	certificates core.ICertificateRegistry,
	marketService core.IMarketService,
) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/courses", allCoursesHandler(courseStore, courseService))
	router.Get("/courses/{id}", courseHandler(courseService, enrollmentStore))
	router.Get("/learners/{user}/courses", learningsHandler(enrollmentStore))
	router.Get("/learners/{user}/courses/{course}", hasCourseHandler(marketService))
	router.Get("/learners/{user}/certificates", certificatesHandler(certificates))
	router.Get("/events", eventsHandler(eventStore))

	return router
}
