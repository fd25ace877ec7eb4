package api

func (s *Server) setupRoutes() {
	s.router.GET("/", s.healthHandler.WorkerInfo)
	s.router.GET("/health", s.healthHandler.HealthCheck)

	detection := s.router.Group("/detection")
	{
		detection.POST("/start", s.detectionHandler.Start)
		detection.POST("/stop", s.detectionHandler.Stop)
		detection.GET("/stats", s.detectionHandler.Stats)
		detection.POST("/report-interval", s.detectionHandler.SetReportInterval)
	}

	s.router.GET("/reports", s.detectionHandler.Reports)

	videos := s.router.Group("/videos")
	{
		videos.GET("", s.videoHandler.ListVideos)
		videos.POST("", s.videoHandler.UploadVideo)
		videos.DELETE("/:filename", s.videoHandler.DeleteVideo)
	}

	s.router.GET("/ws", s.streamHandler.Stream)
}
