package postgres

func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE guild_onboarding (
				guild_id VARCHAR(32) PRIMARY KEY,
				doc JSONB NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE TABLE guild_configs (
				guild_id VARCHAR(32) PRIMARY KEY,
				doc JSONB NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);

			CREATE INDEX idx_guild_onboarding_updated_at ON guild_onboarding(updated_at);
			CREATE INDEX idx_guild_configs_updated_at ON guild_configs(updated_at);
		`,
	}
}
