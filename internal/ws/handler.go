package ws

import (
	"log"

	socketio "github.com/googollee/go-socket.io"

	"go_sitebuilder/internal/auth"
	"go_sitebuilder/internal/db"
	"go_sitebuilder/internal/model"
)

// handleJoinTenant subscribes the connection to its tenant's room.
// Tenant users may only join their own room; admins can pass a tenantId.
func handleJoinTenant(s socketio.Conn, data interface{}) {
	claims, ok := claimsFromData(s, data)
	if !ok {
		return
	}

	tenantID := claims.TenantID
	if claims.Role == model.RoleAdmin {
		if dataMap, ok := data.(map[string]interface{}); ok {
			if idFloat, ok := dataMap["tenantId"].(float64); ok {
				tenantID = int(idFloat)
			}
		}
	}
	if tenantID == 0 {
		s.Emit("error", map[string]interface{}{"message": "no tenant to join"})
		return
	}

	s.Join(TenantRoom(tenantID))
	log.Printf("[WebSocket] Client %s joined %s", s.ID(), TenantRoom(tenantID))
	s.Emit("joined", map[string]interface{}{"tenantId": tenantID})
}

// handleRequestDomainStatus sends the current domain configuration for
// the caller's tenant, so a console that reconnects does not have to
// wait for the next status change event.
func handleRequestDomainStatus(s socketio.Conn, data interface{}) {
	claims, ok := claimsFromData(s, data)
	if !ok {
		return
	}
	if claims.TenantID == 0 {
		s.Emit("error", map[string]interface{}{"message": "no tenant context"})
		return
	}

	var st model.Settings
	if err := db.GetDB().Where("tenant_id = ?", claims.TenantID).First(&st).Error; err != nil {
		log.Printf("[WebSocket] Failed to load settings for tenant %d: %v", claims.TenantID, err)
		s.Emit("error", map[string]interface{}{"message": "failed to load domain status"})
		return
	}

	s.Emit("domain:status", map[string]interface{}{
		"tenantId":    st.TenantID,
		"domainType":  st.DomainType,
		"domain":      st.ActiveDomain(baseDomain),
		"dnsStatus":   st.DNSStatus,
		"websiteLink": st.WebsiteLink,
	})
}

// claimsFromData re-validates the JWT carried in the event payload
func claimsFromData(s socketio.Conn, data interface{}) (*auth.Claims, bool) {
	dataMap, ok := data.(map[string]interface{})
	if !ok {
		s.Emit("error", map[string]interface{}{"message": "invalid payload"})
		return nil, false
	}
	token, _ := dataMap["token"].(string)
	if token == "" {
		s.Emit("error", map[string]interface{}{"message": "token required"})
		return nil, false
	}

	claims, err := auth.ParseToken(token)
	if err != nil {
		log.Printf("[WebSocket] Rejected event from %s: %v", s.ID(), err)
		s.Emit("error", map[string]interface{}{"message": "invalid token"})
		return nil, false
	}
	return claims, true
}
