package service

import (
	"net/http"

	"connectrpc.com/connect"
)

// Fully-qualified service names, used as URL path prefixes.
const (
	AuthServiceName    = "invoicer.v1.AuthService"
	ClientServiceName  = "invoicer.v1.ClientService"
	InvoiceServiceName = "invoicer.v1.InvoiceService"
)

// Procedure paths.
const (
	AuthServiceRegisterProcedure      = "/" + AuthServiceName + "/Register"
	AuthServiceLoginProcedure         = "/" + AuthServiceName + "/Login"
	AuthServiceMeProcedure            = "/" + AuthServiceName + "/Me"
	AuthServiceUpdateCompanyProcedure = "/" + AuthServiceName + "/UpdateCompany"
	AuthServiceSetAvatarProcedure     = "/" + AuthServiceName + "/SetAvatar"

	ClientServiceListClientsProcedure     = "/" + ClientServiceName + "/ListClients"
	ClientServiceListClientNamesProcedure = "/" + ClientServiceName + "/ListClientNames"
	ClientServiceGetClientProcedure       = "/" + ClientServiceName + "/GetClient"
	ClientServiceCreateClientProcedure    = "/" + ClientServiceName + "/CreateClient"
	ClientServiceUpdateClientProcedure    = "/" + ClientServiceName + "/UpdateClient"

	InvoiceServiceListInvoicesProcedure  = "/" + InvoiceServiceName + "/ListInvoices"
	InvoiceServiceGetInvoiceProcedure    = "/" + InvoiceServiceName + "/GetInvoice"
	InvoiceServiceCreateInvoiceProcedure = "/" + InvoiceServiceName + "/CreateInvoice"
	InvoiceServiceUpdateInvoiceProcedure = "/" + InvoiceServiceName + "/UpdateInvoice"
)

func withCodec(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

// NewAuthServiceHandler mounts the auth service. Register and Login are
// public; the remaining procedures run behind requireAuth.
func NewAuthServiceHandler(svc *AuthService, requireAuth connect.Interceptor, opts ...connect.HandlerOption) (string, http.Handler) {
	public := withCodec(opts)
	private := withCodec(append([]connect.HandlerOption{connect.WithInterceptors(requireAuth)}, opts...))

	mux := http.NewServeMux()
	mux.Handle(AuthServiceRegisterProcedure, connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, public...))
	mux.Handle(AuthServiceLoginProcedure, connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, public...))
	mux.Handle(AuthServiceMeProcedure, connect.NewUnaryHandler(AuthServiceMeProcedure, svc.Me, private...))
	mux.Handle(AuthServiceUpdateCompanyProcedure, connect.NewUnaryHandler(AuthServiceUpdateCompanyProcedure, svc.UpdateCompany, private...))
	mux.Handle(AuthServiceSetAvatarProcedure, connect.NewUnaryHandler(AuthServiceSetAvatarProcedure, svc.SetAvatar, private...))
	return "/" + AuthServiceName + "/", mux
}

// NewClientServiceHandler mounts the client service.
func NewClientServiceHandler(svc *ClientService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)

	mux := http.NewServeMux()
	mux.Handle(ClientServiceListClientsProcedure, connect.NewUnaryHandler(ClientServiceListClientsProcedure, svc.ListClients, opts...))
	mux.Handle(ClientServiceListClientNamesProcedure, connect.NewUnaryHandler(ClientServiceListClientNamesProcedure, svc.ListClientNames, opts...))
	mux.Handle(ClientServiceGetClientProcedure, connect.NewUnaryHandler(ClientServiceGetClientProcedure, svc.GetClient, opts...))
	mux.Handle(ClientServiceCreateClientProcedure, connect.NewUnaryHandler(ClientServiceCreateClientProcedure, svc.CreateClient, opts...))
	mux.Handle(ClientServiceUpdateClientProcedure, connect.NewUnaryHandler(ClientServiceUpdateClientProcedure, svc.UpdateClient, opts...))
	return "/" + ClientServiceName + "/", mux
}

// NewInvoiceServiceHandler mounts the invoice service.
func NewInvoiceServiceHandler(svc *InvoiceService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withCodec(opts)

	mux := http.NewServeMux()
	mux.Handle(InvoiceServiceListInvoicesProcedure, connect.NewUnaryHandler(InvoiceServiceListInvoicesProcedure, svc.ListInvoices, opts...))
	mux.Handle(InvoiceServiceGetInvoiceProcedure, connect.NewUnaryHandler(InvoiceServiceGetInvoiceProcedure, svc.GetInvoice, opts...))
	mux.Handle(InvoiceServiceCreateInvoiceProcedure, connect.NewUnaryHandler(InvoiceServiceCreateInvoiceProcedure, svc.CreateInvoice, opts...))
	mux.Handle(InvoiceServiceUpdateInvoiceProcedure, connect.NewUnaryHandler(InvoiceServiceUpdateInvoiceProcedure, svc.UpdateInvoice, opts...))
	return "/" + InvoiceServiceName + "/", mux
}
