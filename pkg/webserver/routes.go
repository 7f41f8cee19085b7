package webserver

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.healthCheck)

	// API v1 routes
	v1 := s.router.Group("/api/v1")
	{
		// Public visa-type encyclopedia
		v1.GET("/visa-types", s.listVisaTypes)
		v1.GET("/visa-types/:code", s.getVisaType)

		// Dispatch trigger for the external scheduler
		v1.POST("/reminders/dispatch", s.dispatchAuthMiddleware(), s.dispatchReminders)

		// Protected routes
		protected := v1.Group("")
		protected.Use(s.authMiddleware())
		{
			// Auth
			protected.POST("/auth/logout", s.logout)

			// Profile
			protected.GET("/profile", s.getProfile)
			protected.PUT("/profile", s.updateProfile)

			// Visas
			protected.POST("/visas", s.createVisa)
			protected.GET("/visas", s.listVisas)
			protected.GET("/visas/:id", s.getVisa)
			protected.PUT("/visas/:id", s.updateVisa)
			protected.DELETE("/visas/:id", s.deleteVisa)

			// Reminders
			protected.GET("/reminders", s.listReminders)
			protected.POST("/reminders/plan", s.planReminders)

			// Dashboard
			protected.GET("/dashboard/stats", s.getDashboardStats)
		}
	}
}
