package api

// extractIP picks the client IP from forwarding headers, preferring the
// first X-Forwarded-For hop.
func extractIP(forwardedFor, realIP string) string {
	if forwardedFor != "" {
		for i := 0; i < len(forwardedFor); i++ {
			if forwardedFor[i] == ',' {
				return forwardedFor[:i]
			}
		}
		return forwardedFor
	}
	if realIP != "" {
		return realIP
	}
	return "unknown"
}
