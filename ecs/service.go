package ecs

// Service is embedded by application-wide singletons.
type Service struct {
	object
	typ      TService
	services []IService
}

func (s *Service) service() *Service {
	return s
}

func (s *Service) Type() TService {
	return s.typ
}

// Services are the resolved dependencies declared in ServiceMeta.Services.
func (s *Service) Services() []IService {
	return s.services
}

func (s *Service) GetService(t TService) (IService, bool) {
	return findService(s.services, t)
}
