package constants

const (
	// COMPONENT names the cache sub-directory and the plugin install path.
	COMPONENT = "krawl"
	VERSION   = "0.1"

	EXT           = ".krl"
	BRAWL_EXT     = ".brl"
	OBJ_EXT       = ".o"
	C_HEADER_EXT  = ".h"
	BRIDGE_DELIM  = "-*-"
	CLANG_PLUGIN  = "c-to-krawl"
	PLUGIN_NAME   = "libctokrawl"
	DEFAULT_CLANG = "clang"

	ENV_CACHE_HOME     = "XDG_CACHE_HOME"
	ENV_CLANG          = "KRAWL_CLANG"
	ENV_CLANG_PLUGIN   = "KRAWL_CLANG_PLUGIN"
	ENV_INSTALL_PREFIX = "KRAWL_INSTALL_PREFIX"
	ENV_MODULE_PATH    = "KRAWL_PATH"

	DEFAULT_INSTALL_PREFIX = "/usr/local"
)
