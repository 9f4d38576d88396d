package layout

func bodyWrapperClass(sidebarOpen bool) string {
	if sidebarOpen {
		return "flex min-h-screen"
	}
	return "min-h-screen"
}

func mainClass(sidebarOpen bool) string {
	if sidebarOpen {
		return "flex-1 p-6 lg:ml-64"
	}
	return "mx-auto max-w-md p-6"
}
