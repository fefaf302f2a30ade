package store

// Consent records whether the user agreed to durable credential storage.
type Consent string

const (
	ConsentUnknown  Consent = ""
	ConsentAccepted Consent = "accepted"
	ConsentRejected Consent = "rejected"
)

// Consent returns the recorded consent; it is kept in the durable tier only.
func (s *Store) Consent() Consent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, _ := s.durable.Get(ConsentKey)
	switch Consent(value) {
	case ConsentAccepted, ConsentRejected:
		return Consent(value)
	}
	return ConsentUnknown
}

// SetConsent records the consent decision.
func (s *Store) SetConsent(accepted bool) error {
	value := ConsentRejected
	if accepted {
		value = ConsentAccepted
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.durable.Set(ConsentKey, string(value))
}

// DurableAllowed reports whether a "remember me" login may use the durable tier.
func (s *Store) DurableAllowed(remember bool) bool {
	return remember && s.Consent() == ConsentAccepted
}
