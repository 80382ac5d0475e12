package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/goliatone/go-regforms/pkg/themes"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	r.Handle(themes.AssetPrefix+"/*", http.StripPrefix(themes.AssetPrefix, http.FileServerFS(themes.AssetsFS())))

	if _, err := s.countries.RegisterRoutes(r, ""); err != nil {
		s.logger.Error("countries route not registered", zap.Error(err))
	}

	r.Get("/forms/{form}", s.handleForm)
	r.Post("/forms/{form}", s.handleFormPost)
	r.Get("/forms/{form}/preview", s.handlePreview)
	r.Get("/forms/{form}/model", s.handleModel)
	r.Get("/forms/{form}/schema", s.handleSchema)

	r.Route("/api/forms", func(r chi.Router) {
		r.Get("/", s.handleListForms)
		r.Post("/{form}/validate", s.handleValidate)
		r.Post("/{form}/submissions", s.handleSubmission)
	})

	return r
}
