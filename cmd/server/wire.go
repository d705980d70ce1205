//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/techLii/chatobi/internal/config"
	"github.com/techLii/chatobi/internal/handler"
	"github.com/techLii/chatobi/internal/hub"
	"github.com/techLii/chatobi/internal/service"
	"github.com/techLii/chatobi/internal/views"
	"github.com/techLii/chatobi/internal/vote"
)

// InitializeApp creates a new application.
func InitializeApp() (*App, func(), error) {
	wire.Build(
		config.Load,
		// Store Providers
		wire.NewSet(
			provideContext,
			provideStores,
			wire.FieldsOf(new(*Stores), "Users", "Sessions", "Messages", "Events", "DMs", "Profiles"),
			provideVoteStore,
		),
		// Service Providers
		wire.NewSet(
			provideSessionTTL,
			provideNameCache,

			service.NewUserService,
			wire.Bind(new(service.IUserService), new(*service.UserService)),

			service.NewChatService,
			wire.Bind(new(service.IChatService), new(*service.ChatService)),

			service.NewEventService,
			wire.Bind(new(service.IEventService), new(*service.EventService)),

			service.NewDirectMessageService,
			wire.Bind(new(service.IDirectMessageService), new(*service.DirectMessageService)),

			service.NewProfileService,
			wire.Bind(new(service.IProfileService), new(*service.ProfileService)),
		),
		// Hub Providers
		views.NewFactory,
		vote.NewMutator,
		provideHubOptions,
		hub.NewHub,
		// HTTP Providers
		handler.NewWebsocketHandler,
		handler.NewAPIHandler,
		handler.NewRouter,
		// App Provider
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
