package handler

import albumservice "imager/internal/modules/album/service"

type Handler struct {
	albumService *albumservice.Service
}

func New(albumService *albumservice.Service) *Handler {
	return &Handler{albumService: albumService}
}
