package router

import (
	"github.com/viajante/journal/internal/application"
	"github.com/viajante/journal/internal/container"
	pginfra "github.com/viajante/journal/internal/infrastructure/postgres"
	"github.com/viajante/journal/internal/infrastructure/social"
	handlers "github.com/viajante/journal/internal/interface/http"
	"github.com/viajante/journal/internal/router/modules"
	"github.com/viajante/journal/pkg/helpers"
)

type appDeps struct {
	Auth      *application.AuthService
	Diaries   *application.DiaryService
	Dashboard *application.DashboardService
	Chat      *application.ChatService
}

func buildDeps() appDeps {
	cfg := container.GetConfig()
	store := container.GetAuthStore()

	users := pginfra.NewUserRepository(container.GetPGPool())
	diaries := pginfra.NewDiaryRepository(container.GetPGPool())

	// A failed broker dial leaves a nil *RabbitPublisher in the container;
	// keep the interface itself nil so mail enqueueing is skipped cleanly.
	var mail application.Publisher
	if p := container.GetRabbitPub(); p != nil {
		mail = p
	}

	auth := &application.AuthService{
		Repo:            users,
		JWT:             container.GetJWT(),
		Sessions:        store,
		Tokens:          store,
		Mail:            mail,
		Google:          social.NewGoogleVerifier(cfg.GoogleClientID, cfg.GoogleJWKSURL),
		Facebook:        social.NewFacebookVerifier(cfg.FacebookGraphURL),
		Logger:          container.GetLogger(),
		AppName:         cfg.AppName,
		VerifyEmailURL:  cfg.VerifyEmailURL,
		ResetPassURL:    cfg.ResetPasswordURL,
		MailSendEnabled: cfg.MailSendEnabled,
	}

	diarySvc := &application.DiaryService{
		Repo:                diaries,
		Users:               users,
		Uploader:            helpers.NewGCSUploader(container.GetGCS(), cfg.GCSBucket),
		Feed:                container.GetDispatcher(),
		Logger:              container.GetLogger(),
		ES:                  container.GetES(),
		ESDiariesIndex:      cfg.ESDiariesIndex,
		PlaceholderImageURL: cfg.PlaceholderImageURL,
	}

	return appDeps{
		Auth:      auth,
		Diaries:   diarySvc,
		Dashboard: &application.DashboardService{Repo: diaries},
		Chat:      application.NewChatService(cfg.StreamAPIKey, cfg.StreamAPISecret, cfg.StreamBaseURL),
	}
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	deps := buildDeps()
	cfg := container.GetConfig()
	log := container.GetLogger()

	authHandler := handlers.NewAuthHandler(deps.Auth, log, cfg.CookieDomain, cfg.CookieSecure)
	userHandler := handlers.NewUserHandler(deps.Auth, log)
	diaryHandler := handlers.NewDiaryHandler(deps.Diaries, container.GetDispatcher(), log)
	dashHandler := handlers.NewDashboardHandler(deps.Dashboard, log)
	chatHandler := handlers.NewChatHandler(deps.Chat, deps.Auth, cfg.StreamAPIKey, log)

	r.Add(modules.NewAuthModule(authHandler, userHandler))
	r.Add(modules.NewDiaryModule(diaryHandler))
	r.Add(modules.NewDashboardModule(dashHandler, deps.Auth))
	r.Add(modules.NewChatModule(chatHandler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
