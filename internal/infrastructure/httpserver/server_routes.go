package httpserver

func (s *Server) setupRoutes() {
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/metrics", s.metricsEndpoint)

	api := s.echo.Group("/api/v1")

	games := api.Group("/games")
	games.GET("/random", s.randomGame)

	api.GET("/strategies", s.listStrategies)
	api.GET("/filters", s.listFilterOptions)
}
