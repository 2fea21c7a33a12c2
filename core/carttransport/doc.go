// Package carttransport binds the transport-agnostic cart session lifecycle
// to HTTP.
//
// The transport reads the signed identity cookie and the optional key
// override header from the request, resolves a session through
// cartsession.Manager, and exposes it to handlers via the request context.
// Identity headers and the refreshed cookie are written lazily, right before
// the first body byte, so handlers that mutate the cart must save before
// writing their response body.
//
// Example usage:
//
//	codec, _ := identity.NewCodec([]string{os.Getenv("CART_COOKIE_SECRETS")})
//	resolver := identity.NewResolver(codec, directory)
//	mgr := cartsession.NewManager(store, resolver, cartsession.DefaultConfig())
//	transport := carttransport.New(mgr, codec, carttransport.DefaultConfig(),
//		carttransport.WithPrincipalFunc(principalFromAuth),
//	)
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("POST /cart/items", func(w http.ResponseWriter, r *http.Request) {
//		sess := carttransport.MustSessionFromContext(r.Context())
//		sess.Cart().AddItem(item)
//		if err := sess.Save(r.Context()); err != nil {
//			http.Error(w, "cart unavailable", http.StatusServiceUnavailable)
//			return
//		}
//		w.WriteHeader(http.StatusNoContent)
//	})
//	http.ListenAndServe(":8080", transport.Middleware(mux))
package carttransport
