package react

// providerUnit exposes the client through a React context.
const providerUnit = `// Generated by oag. Do not edit.

import { createContext, useContext, useMemo, type ReactNode } from "react";
import { ApiClient, type ClientOptions } from "./client";

const ApiClientContext = createContext<ApiClient | undefined>(undefined);

export interface ApiProviderProps extends ClientOptions {
  children?: ReactNode;
  client?: ApiClient;
}

export function ApiProvider({ children, client, baseUrl, fetch, interceptor }: ApiProviderProps) {
  const value = useMemo(
    () => client ?? new ApiClient({ baseUrl, fetch, interceptor }),
    [client, baseUrl, fetch, interceptor],
  );
  return <ApiClientContext.Provider value={value}>{children}</ApiClientContext.Provider>;
}

export function useApiClient(): ApiClient {
  const client = useContext(ApiClientContext);
  if (!client) {
    throw new Error("useApiClient must be used within an <ApiProvider>");
  }
  return client;
}
`
