package handler

import (
	"pocketspace/internal/usecase"
)

var (
	authHandler    *AuthHandler
	userHandler    *UserHandler
	listingHandler *ListingHandler
	favorHandler   *FavorHandler
	chatHandler    *ChatHandler
	fileHandler    *FileHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	listingUseCase *usecase.ListingUseCase,
	favorUseCase *usecase.FavorUseCase,
	chatUseCase *usecase.ChatUseCase,
	fileUseCase *usecase.FileUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	listingHandler = NewListingHandler(listingUseCase)
	favorHandler = NewFavorHandler(favorUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	fileHandler = NewFileHandler(fileUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetListingHandler() *ListingHandler {
	return listingHandler
}

func GetFavorHandler() *FavorHandler {
	return favorHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetFileHandler() *FileHandler {
	return fileHandler
}
