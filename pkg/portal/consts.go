package portal

const DatesLayout = "2006-01-02 15:04:05"

// ---- Middleware / HTTP

const RequestIDHeader = "X-Request-ID"
const ForwardedForHeader = "X-Forwarded-For"

// ---- Middleware / Context

type contextKey string

const AdminAccountKey contextKey = "admin.account"
const ViewerEmailKey contextKey = "viewer.email"
const ViewerTenantKey contextKey = "viewer.tenant"
const RequestIdKey contextKey = "request.id"
