package commands

type RootArgs struct {
	logLevel   *string
	logFormat  *string
	cpuProfile *string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{
		logLevel:   new(string),
		logFormat:  new(string),
		cpuProfile: new(string),
	}
}

func (a *RootArgs) GetLogLevel() string {
	return *a.logLevel
}

func (a *RootArgs) GetLogFormat() string {
	return *a.logFormat
}

func (a *RootArgs) GetCPUProfile() string {
	return *a.cpuProfile
}
